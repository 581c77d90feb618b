package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/providers"
	"github.com/Mohsinsiddi/w3dash/internal/rpc"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show and switch networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := activeNetwork()
		if err != nil {
			return err
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 14},
			{Title: "Display", Width: 14},
			{Title: "Chain ID", Width: 8, Align: ui.AlignRight},
			{Title: "Currency", Width: 8},
			{Title: "Explorer", Width: 30},
			{Title: "Active", Width: 6},
		})
		for _, n := range chain.NewRegistry().All() {
			mark := ""
			if n.ChainID == active.ChainID {
				mark = "✓"
			}
			t.AddRow(ui.Row{n.Name, n.DisplayName, strconv.FormatInt(n.ChainID, 10), n.NativeCurrency, n.Explorer, mark})
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain-id|name>",
	Short: "Set the active network",
	Long: `Persist the active network. Accepts a chain ID or a name:

  w3dash network use 8453           # Base
  w3dash network use base-sepolia   # Base Sepolia`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := lookupNetwork(args[0])
		if err != nil {
			return fmt.Errorf("unknown network %q (run `w3dash network list`): %w", args[0], err)
		}
		cfg.ChainID = n.ChainID
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Active network set to %s (%d)", ui.ChainName(n.DisplayName), n.ChainID)))
		return nil
	},
}

var networkBenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the RPC endpoints of the active network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := activeNetwork()
		if err != nil {
			return err
		}
		var results []rpc.Endpoint
		_ = ui.Spin(cmd.ErrOrStderr(), "Benchmarking "+n.DisplayName+" endpoints...", func() error {
			results = rpc.Benchmark(cmd.Context(), providers.Build(n, cfg), config.RPCSelectTimeout)
			return nil
		})

		t := ui.NewTable([]ui.Column{
			{Title: "Source", Width: 8},
			{Title: "RPC URL", Width: 44},
			{Title: "Latency", Width: 9, Align: ui.AlignRight},
			{Title: "Block", Width: 10, Align: ui.AlignRight},
			{Title: "Status", Width: 7},
		})
		for _, r := range results {
			latency, block, status := r.Latency.Round(time.Millisecond).String(), strconv.FormatUint(r.BlockNumber, 10), "ok"
			if !r.Healthy() {
				latency, block, status = "-", "-", "down"
			}
			t.AddRow(ui.Row{r.Source, r.URL, latency, block, status})
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, t.Render())

		best, err := rpc.Pick(results, rpc.ParseAlgorithm(cfg.RPCAlgorithm))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s picks %s", cfg.RPCAlgorithm, best.URL)))
		return nil
	},
}

// lookupNetwork accepts a decimal chain ID or a network name.
func lookupNetwork(s string) (*chain.Network, error) {
	reg := chain.NewRegistry()
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return reg.GetByChainID(id)
	}
	return reg.GetByName(s)
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkBenchCmd)
}
