package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [wallet-or-address]",
	Short: "Show ETH and token balances",
	Long: `Show the native and token balance of the connected wallet, a named
wallet, or any address.

Examples:
  w3dash balance
  w3dash balance 0x000000000000000000000000000000000000dEaD --testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		var target string
		if len(args) == 1 {
			target = args[0]
		} else {
			w, err := connectedWallet(mgr, "")
			if err != nil {
				return err
			}
			target = w.Name
		}
		holder, err := resolveAddress(mgr, target)
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
			native *chain.Amount
			info   *contract.TokenInfo
			tokBal chain.Amount
		)
		err = ui.Spin(cmd.ErrOrStderr(), "Fetching balances...", func() error {
			raw, err := s.client.NativeBalance(ctx, holder)
			if err != nil {
				return err
			}
			a := chain.NewAmount(raw, s.net.NativeDecimals)
			native = &a

			addr, err := tokenAddress()
			if err != nil {
				return err
			}
			tok := contract.NewToken(s.client, addr)
			if info, err = tok.Info(ctx); err != nil {
				// The token may not exist on this network; ETH still shows.
				log.Warn("token read failed", zap.Error(err))
				info = nil
				return nil
			}
			tokBal, err = tok.BalanceOf(ctx, holder, info.Decimals)
			return err
		})
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Address", holder.Hex()},
			{"Network", s.net.DisplayName},
			{s.net.NativeCurrency, native.String()},
		}
		if info != nil {
			pairs = append(pairs, [2]string{info.Symbol, tokBal.String()})
		} else {
			pairs = append(pairs, [2]string{"Token", "unavailable on " + s.net.DisplayName})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Balances", pairs))
		return nil
	},
}
