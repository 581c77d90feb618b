package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/transfer"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var (
	txYes    bool
	txForm   bool
	txWallet string
)

// addTxFlags registers the flags shared by every state-changing command.
func addTxFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&txYes, "yes", "y", false, "skip the confirmation prompt")
	c.Flags().BoolVar(&txForm, "form", false, "open the interactive form")
	c.Flags().StringVar(&txWallet, "wallet", "", "wallet to sign with (default: connected wallet)")
}

// checkArgs rejects a malformed recipient or token ID given on the command
// line before any connection is made. Amounts need the asset's decimals and
// balance, so they are left to the workflow.
func checkArgs(req transfer.Request) error {
	if req.Recipient != "" {
		if _, err := transfer.ParseAddress(req.Recipient); err != nil {
			return err
		}
	}
	if req.TokenID != "" {
		if _, err := transfer.ParseTokenID(req.TokenID); err != nil {
			return err
		}
	}
	return nil
}

// runTransfer drives one workflow for asset. Without a complete request, or
// with --form, the interactive form takes over; otherwise the request is
// validated, previewed, confirmed and submitted with progress printed as
// the record moves through its states.
func runTransfer(cmd *cobra.Command, s *session, asset transfer.Asset, req transfer.Request, complete bool) error {
	adapter, err := s.signingAdapter()
	if err != nil {
		return err
	}
	wf := transfer.New(adapter, asset, transfer.WithLogger(log))
	out := cmd.OutOrStdout()

	if txForm || !complete {
		rec, err := ui.RunTransferForm(cmd.Context(), wf, ui.FormOptions{
			Title:   fmt.Sprintf("%s · %s", titleFor(asset), s.net.DisplayName),
			TxURL:   s.net.TxURL,
			Initial: req,
		})
		if err != nil {
			return err
		}
		if rec.State != transfer.StateIdle {
			fmt.Fprint(out, ui.RenderRecord(rec, s.net.TxURL))
		}
		return nil
	}

	err = ui.Spin(cmd.ErrOrStderr(), "Reading balance...", func() error {
		_, err := wf.RefreshBalance(cmd.Context())
		return err
	})
	if err != nil {
		// Validation reports an unknown balance where it matters.
		log.Warn("balance refresh failed", zap.Error(err))
	}

	wf.SetForm(req)
	if _, err := wf.Validate(); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.KeyValueBlock(titleFor(asset), previewPairs(s, asset, req, wf.Balance())))
	if !txYes && !ui.Confirm(cmd.InOrStdin(), out, "Broadcast this transaction?") {
		fmt.Fprintln(out, ui.Meta("Cancelled."))
		return nil
	}

	detach := wf.Observe(func(r transfer.Record) {
		line := ui.StateBadge(r.State)
		if r.State == transfer.StatePendingConfirmation {
			line += "  " + ui.Addr(r.Hash.Hex()) + "\n  " + ui.Meta(s.net.TxURL(r.Hash.Hex()))
		}
		fmt.Fprintln(out, line)
	})
	defer detach()

	rec, err := wf.Submit(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ui.Success(fmt.Sprintf("Confirmed in block %d", rec.Receipt.BlockNumber)))
	if b := wf.Balance(); b != nil && asset.Kind != transfer.KindTokenApprove {
		fmt.Fprintln(out, ui.Info("Balance now "+b.String()+" "+asset.Symbol))
	}
	return nil
}

func titleFor(a transfer.Asset) string {
	switch a.Kind {
	case transfer.KindNative:
		return "Send " + a.Symbol
	case transfer.KindNFT:
		return "Transfer NFT"
	case transfer.KindTokenMint:
		return "Mint " + a.Symbol
	case transfer.KindTokenBurn:
		return "Burn " + a.Symbol
	case transfer.KindTokenApprove:
		return "Approve " + a.Symbol
	}
	return "Transfer " + a.Symbol
}

func previewPairs(s *session, a transfer.Asset, req transfer.Request, bal *chain.Amount) [][2]string {
	pairs := [][2]string{{"From", s.wallet.Address}}
	switch a.Kind {
	case transfer.KindTokenBurn:
	case transfer.KindTokenApprove:
		pairs = append(pairs, [2]string{"Spender", req.Recipient})
	default:
		pairs = append(pairs, [2]string{"To", req.Recipient})
	}
	if a.Kind == transfer.KindNFT {
		pairs = append(pairs,
			[2]string{"Contract", a.Contract.Hex()},
			[2]string{"Token ID", req.TokenID})
	} else {
		pairs = append(pairs, [2]string{"Amount", req.Amount + " " + a.Symbol})
	}
	if bal != nil {
		pairs = append(pairs, [2]string{"Balance", bal.String() + " " + a.Symbol})
	}
	return append(pairs, [2]string{"Network", s.net.DisplayName})
}
