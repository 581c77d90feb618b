package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/nft"
	"github.com/Mohsinsiddi/w3dash/internal/transfer"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

var nftOwnerFlag string

var nftCmd = &cobra.Command{
	Use:   "nft",
	Short: "List and transfer ERC-721 tokens",
}

var nftListCmd = &cobra.Command{
	Use:   "list <contract>",
	Short: "List NFTs the connected wallet (or --owner) holds at a contract",
	Long: `Walk the owner's tokens at an ERC721Enumerable contract and resolve
each token's metadata. At most 20 tokens are shown; entries whose metadata
cannot be read are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contractAddr, err := transfer.ParseAddress(args[0])
		if err != nil {
			return err
		}
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		ownerRef := nftOwnerFlag
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

		s, err := openSession(cmd, "", false)
		if err != nil {
			return err
		}
		defer s.Close()

		var bar *progressbar.ProgressBar
		en := nft.NewEnumerator(s.client,
			nft.WithFetcher(nft.NewFetcher(cfg.IPFSGateway, nil)),
			nft.WithLogger(log),
			nft.WithProgress(func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionSetDescription("Fetching NFTs"),
						progressbar.OptionShowCount(),
						progressbar.OptionSetWidth(30),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			}),
		)

		res, err := en.Enumerate(cmd.Context(), owner, contractAddr)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil && res == nil {
			return err
		}
		out := cmd.OutOrStdout()
		// A cancelled walk still shows what it found.
		fmt.Fprint(out, renderNFTs(res, en.Limit(), s.net, contractAddr.Hex()))
		return err
	},
}

func renderNFTs(res *nft.Result, limit int, n *chain.Network, contractAddr string) string {
	if len(res.Descriptors) == 0 {
		if res.Total != nil && res.Total.Sign() > 0 {
			return ui.Warn(fmt.Sprintf("Owner holds %s token(s) but none could be described.", res.Total)) + "\n"
		}
		return ui.Info("No NFTs owned at this contract.") + "\n"
	}

	t := ui.NewTable([]ui.Column{
		{Title: "Token ID", Width: 10, Align: ui.AlignRight},
		{Title: "Name", Width: 24},
		{Title: "Image", Width: 48},
	})
	for _, d := range res.Descriptors {
		t.AddRow(ui.Row{d.TokenID.String(), d.Name, d.Image})
	}
	s := t.Render()
	if res.Capped(limit) {
		s += ui.Warn(fmt.Sprintf("Showing the first %d of %s tokens.", limit, res.Total)) + "\n"
	}
	if res.Skipped > 0 {
		s += ui.Meta(fmt.Sprintf("%d token(s) skipped: metadata unavailable.", res.Skipped)) + "\n"
	}
	s += ui.Meta(n.AddressURL(contractAddr)) + "\n"
	return s
}

var nftTransferCmd = &cobra.Command{
	Use:   "transfer <contract> [to] [token-id]",
	Short: "Transfer an NFT with safeTransferFrom",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		asset, err := transfer.NFTAsset(args[0])
		if err != nil {
			return err
		}
		req := requestFrom(args[1:], true)
		if err := checkArgs(req); err != nil {
			return err
		}
		s, err := openSession(cmd, txWallet, true)
		if err != nil {
			return err
		}
		defer s.Close()

		return runTransfer(cmd, s, asset, req, len(args) == 3)
	},
}

var nftOwnerCmd = &cobra.Command{
	Use:   "owner <contract> <token-id>",
	Short: "Show who holds one NFT",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contractAddr, err := transfer.ParseAddress(args[0])
		if err != nil {
			return err
		}
		id, err := transfer.ParseTokenID(args[1])
		if err != nil {
			return err
		}
		s, err := openSession(cmd, "", false)
		if err != nil {
			return err
		}
		defer s.Close()

		owner, err := contract.NewERC721(s.client, contractAddr).OwnerOf(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ownerOf(%s): %w", id, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("NFT", [][2]string{
			{"Contract", contractAddr.Hex()},
			{"Token ID", id.String()},
			{"Owner", owner.Hex()},
			{"Explorer", s.net.TokenURL(contractAddr.Hex(), id.String())},
		}))
		return nil
	},
}

func init() {
	nftListCmd.Flags().StringVar(&nftOwnerFlag, "owner", "", "owner wallet name or address")
	addTxFlags(nftTransferCmd)
	nftCmd.AddCommand(nftListCmd, nftOwnerCmd, nftTransferCmd)
}
