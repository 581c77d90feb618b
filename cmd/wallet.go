package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
	"github.com/Mohsinsiddi/w3dash/internal/wallet"
)

var (
	walletKeyFlag      string
	walletInfoLive     bool
	walletInfoInterval time.Duration
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage and connect wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a watch-only wallet, or a signing wallet with --key",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		name, out := args[0], cmd.OutOrStdout()

		var w *wallet.Wallet
		switch {
		case walletKeyFlag != "":
			w, err = mgr.AddWithKey(name, walletKeyFlag)
		case len(args) == 2:
			w, err = mgr.AddWatchOnly(name, args[1])
		default:
			return fmt.Errorf("address required for a watch-only wallet\n  Usage: w3dash wallet add <name> <address>\n  Or for signing: w3dash wallet add <name> --key <private-key>")
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s wallet %q added: %s", typeLabel(w), name, ui.Addr(w.Address))))
		fmt.Fprintln(out, ui.Hint("Connect it with: w3dash wallet connect "+name))
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing wallet",
	Long: `Generate a fresh keypair. The private key goes straight to the OS
keychain (or the encrypted file keyring) and is never printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		w, err := mgr.Generate(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q generated: %s", w.Name, ui.Addr(w.Address))))
		fmt.Fprintln(out, ui.Hint("Fund it, then connect with: w3dash wallet connect "+w.Name))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(wallets) == 0 {
			fmt.Fprintln(out, ui.Info("No wallets yet."))
			fmt.Fprintln(out, ui.Hint("Add one with: w3dash wallet add main --key <hex> or w3dash wallet generate main"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "Type", Width: 10},
			{Title: "Active", Width: 6},
		})
		for _, w := range wallets {
			active := ""
			if w.Name == cfg.ActiveWallet {
				active = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, typeLabel(w), active})
		}
		fmt.Fprint(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s)", len(wallets))))
		return nil
	},
}

var walletConnectCmd = &cobra.Command{
	Use:   "connect [name]",
	Short: "Connect a wallet (pick interactively without a name)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			wallets, err := mgr.List()
			if err != nil {
				return err
			}
			items := make([]ui.PickerItem, len(wallets))
			for i, w := range wallets {
				items[i] = ui.PickerItem{Label: w.Name, SubLabel: ui.TruncateAddr(w.Address) + " · " + typeLabel(w), Value: w.Name}
			}
			if name, err = ui.Pick("Connect wallet", items, cfg.ActiveWallet); err != nil {
				return err
			}
			if name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled."))
				return nil
			}
		}

		w, err := mgr.Get(name)
		if err != nil {
			return err
		}
		cfg.ActiveWallet = w.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Connected %q (%s)", w.Name, ui.Addr(w.Address))))
		if !w.CanSign() {
			fmt.Fprintln(out, ui.Warn("Watch-only: balances and NFTs are readable, transfers are not."))
		}
		return nil
	},
}

var walletDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the active wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !cfg.Connected() {
			fmt.Fprintln(out, ui.Info("No wallet connected."))
			return nil
		}
		name := cfg.ActiveWallet
		cfg.ActiveWallet = ""
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Disconnected %q.", name)))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, out := args[0], cmd.OutOrStdout()
		if !txYes && !ui.ConfirmDanger(cmd.InOrStdin(), out, fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.ActiveWallet == name {
			cfg.ActiveWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show address, block, gas price, nonce and balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, txWallet, true)
		if err != nil {
			return err
		}
		defer s.Close()

		if walletInfoLive {
			return ui.RunDashboard(cmd.Context(), walletInfoInterval, s.snapshot)
		}
		snap, err := s.snapshot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderWalletInfo(snap))
		return nil
	},
}

// snapshot reads the wallet info view from the network.
func (s *session) snapshot(ctx context.Context) (ui.WalletSnapshot, error) {
	acct := s.account()
	snap := ui.WalletSnapshot{
		Network:  s.net.DisplayName,
		ChainID:  s.net.ChainID,
		Wallet:   s.wallet.Name,
		Address:  s.wallet.Address,
		Symbol:   s.net.NativeCurrency,
		Explorer: s.net.AddressURL(s.wallet.Address),
	}

	block, err := s.client.BlockNumber(ctx)
	if err != nil {
		return snap, fmt.Errorf("block number: %w", err)
	}
	gas, err := s.client.GasPrice(ctx)
	if err != nil {
		return snap, fmt.Errorf("gas price: %w", err)
	}
	nonce, err := s.client.TransactionCount(ctx, acct)
	if err != nil {
		return snap, fmt.Errorf("nonce: %w", err)
	}
	bal, err := s.client.NativeBalance(ctx, acct)
	if err != nil {
		return snap, fmt.Errorf("balance: %w", err)
	}

	snap.Block = block
	snap.GasGwei = chain.WeiToGwei(gas).String()
	snap.Nonce = nonce
	snap.Balance = chain.FormatUnits(bal, s.net.NativeDecimals)
	return snap, nil
}

func typeLabel(w *wallet.Wallet) string {
	if w.CanSign() {
		return "signing"
	}
	return "watch-only"
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key (hex) for a signing wallet")
	walletRemoveCmd.Flags().BoolVarP(&txYes, "yes", "y", false, "skip the confirmation prompt")
	walletInfoCmd.Flags().BoolVar(&walletInfoLive, "live", false, "refresh continuously")
	walletInfoCmd.Flags().DurationVar(&walletInfoInterval, "interval", 5*time.Second, "refresh interval for --live")
	walletInfoCmd.Flags().StringVar(&txWallet, "wallet", "", "wallet to show (default: connected wallet)")

	walletCmd.AddCommand(
		walletAddCmd,
		walletGenerateCmd,
		walletListCmd,
		walletConnectCmd,
		walletDisconnectCmd,
		walletRemoveCmd,
		walletInfoCmd,
	)
}
