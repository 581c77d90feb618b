package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/transfer"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var configChainFlag int64

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view := *cfg
		view.ProviderKeys = make(map[string]string, len(cfg.ProviderKeys))
		for k, v := range cfg.ProviderKeys {
			view.ProviderKeys[k] = maskKey(v)
		}
		data, err := json.MarshalIndent(&view, "", "  ")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.StyleTitle.Render("Current configuration"))
		fmt.Fprintln(out, string(data))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <api-key>",
	Short: "Store a provider API key (e.g. alchemy); an empty key removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[0])
		cfg.SetProviderKey(provider, args[1])
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s key saved (%s)", provider, maskKey(args[1]))))
		return nil
	},
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <address>",
	Short: "Set the token contract address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := transfer.ParseAddress(args[0])
		if err != nil {
			return err
		}
		cfg.TokenAddress = addr.Hex()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Token set to "+ui.Addr(cfg.TokenAddress)))
		return nil
	},
}

var configSetGatewayCmd = &cobra.Command{
	Use:   "set-gateway <url>",
	Short: "Set the IPFS HTTP gateway used for NFT metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkHTTPURL(args[0]); err != nil {
			return err
		}
		cfg.IPFSGateway = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("IPFS gateway set to "+args[0]))
		return nil
	},
}

var configAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <url>",
	Short: "Add a custom RPC endpoint for the active network (or --chain)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkHTTPURL(args[0]); err != nil {
			return err
		}
		id, err := rpcChainID()
		if err != nil {
			return err
		}
		if err := cfg.AddRPC(id, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Added RPC for chain %d: %s", id, args[0])))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <url>",
	Short: "Remove a custom RPC endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := rpcChainID()
		if err != nil {
			return err
		}
		if err := cfg.RemoveRPC(id, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed RPC for chain %d: %s", id, args[0])))
		return nil
	},
}

func rpcChainID() (int64, error) {
	if configChainFlag != 0 {
		n, err := lookupNetwork(fmt.Sprint(configChainFlag))
		if err != nil {
			return 0, fmt.Errorf("chain %d: %w", configChainFlag, err)
		}
		return n.ChainID, nil
	}
	n, err := activeNetwork()
	if err != nil {
		return 0, err
	}
	return n.ChainID, nil
}

func checkHTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", s)
	}
	return nil
}

// maskKey keeps the first and last four characters of a secret.
func maskKey(k string) string {
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", len(k)-8) + k[len(k)-4:]
}

func init() {
	for _, c := range []*cobra.Command{configAddRPCCmd, configRemoveRPCCmd} {
		c.Flags().Int64Var(&configChainFlag, "chain", 0, "chain ID (default: active network)")
	}
	configCmd.AddCommand(
		configShowCmd,
		configSetKeyCmd,
		configSetTokenCmd,
		configSetGatewayCmd,
		configAddRPCCmd,
		configRemoveRPCCmd,
	)
}
