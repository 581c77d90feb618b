package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/transfer"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var tokenOwnerFlag string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Read and move the configured token",
	Long: `Commands for the configured token contract (see "w3dash config set-token").
Write commands open the interactive form unless every argument is given.`,
}

var tokenInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show name, symbol, decimals, supply and owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "", false)
		if err != nil {
			return err
		}
		defer s.Close()

		addr, err := tokenAddress()
		if err != nil {
			return err
		}
		tok := contract.NewToken(s.client, addr)
		ctx := cmd.Context()

		var (
			info  *contract.TokenInfo
			owner common.Address
		)
		err = ui.Spin(cmd.ErrOrStderr(), "Reading token...", func() error {
			var err error
			if info, err = tok.Info(ctx); err != nil {
				return err
			}
			if owner, err = tok.Owner(ctx); err != nil {
				log.Debug("owner read failed", zap.Error(err))
			}
			return nil
		})
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Address", addr.Hex()},
			{"Name", info.Name},
			{"Symbol", info.Symbol},
			{"Decimals", fmt.Sprint(info.Decimals)},
			{"Total supply", info.TotalSupply.String()},
			{"Max supply", info.MaxSupply.String()},
		}
		if owner != (common.Address{}) {
			pairs = append(pairs, [2]string{"Owner", owner.Hex()})
		}
		pairs = append(pairs, [2]string{"Explorer", s.net.AddressURL(addr.Hex())})
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock(info.Name+" on "+s.net.DisplayName, pairs))
		return nil
	},
}

var tokenAllowanceCmd = &cobra.Command{
	Use:   "allowance <spender>",
	Short: "Show how much a spender may move for the connected wallet (or --owner)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		ownerRef := tokenOwnerFlag
		if ownerRef == "" {
			w, err := connectedWallet(mgr, "")
			if err != nil {
				return err
			}
			ownerRef = w.Name
		}
		owner, err := resolveAddress(mgr, ownerRef)
		if err != nil {
			return err
		}
		spender, err := resolveAddress(mgr, args[0])
		if err != nil {
			return err
		}

		s, err := openSession(cmd, "", false)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		var (
			asset transfer.Asset
			allow chain.Amount
		)
		err = ui.Spin(cmd.ErrOrStderr(), "Reading allowance...", func() error {
			var err error
			if asset, err = tokenAsset(ctx, s.client, transfer.KindToken); err != nil {
				return err
			}
			allow, err = contract.NewToken(s.client, asset.Contract).Allowance(ctx, owner, spender, asset.Decimals)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Allowance", [][2]string{
			{"Owner", owner.Hex()},
			{"Spender", spender.Hex()},
			{"Allowance", allow.String() + " " + asset.Symbol},
		}))
		return nil
	},
}

// tokenWriteCmd builds one token write command. recipient is false only
// for burn, whose single argument is the amount.
func tokenWriteCmd(use, short string, kind transfer.Kind, recipient bool) *cobra.Command {
	nargs := 2
	if !recipient {
		nargs = 1
	}
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := requestFrom(args, false)
			if !recipient && len(args) == 1 {
				req = transfer.Request{Amount: args[0]}
			}
			if err := checkArgs(req); err != nil {
				return err
			}
			s, err := openSession(cmd, txWallet, true)
			if err != nil {
				return err
			}
			defer s.Close()

			var asset transfer.Asset
			err = ui.Spin(cmd.ErrOrStderr(), "Reading token...", func() error {
				asset, err = tokenAsset(cmd.Context(), s.client, kind)
				return err
			})
			if err != nil {
				return err
			}

			return runTransfer(cmd, s, asset, req, len(args) == nargs)
		},
	}
	addTxFlags(c)
	return c
}

func init() {
	tokenAllowanceCmd.Flags().StringVar(&tokenOwnerFlag, "owner", "", "owner wallet name or address")

	tokenCmd.AddCommand(
		tokenInfoCmd,
		tokenAllowanceCmd,
		tokenWriteCmd("transfer [to] [amount]", "Transfer tokens", transfer.KindToken, true),
		tokenWriteCmd("approve [spender] [amount]", "Approve a spender", transfer.KindTokenApprove, true),
		tokenWriteCmd("mint [to] [amount]", "Mint tokens (contract owner only)", transfer.KindTokenMint, true),
		tokenWriteCmd("burn [amount]", "Burn tokens from the connected wallet", transfer.KindTokenBurn, false),
	)
}
