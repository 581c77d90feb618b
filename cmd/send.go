package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/transfer"
)

var sendCmd = &cobra.Command{
	Use:   "send [to] [amount]",
	Short: "Send ETH from the connected wallet",
	Long: `Send native ETH. With both arguments the transfer is previewed,
confirmed and tracked until it is mined; otherwise the interactive form
opens.

Examples:
  w3dash send 0x000000000000000000000000000000000000dEaD 0.001
  w3dash send --testnet`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := requestFrom(args, false)
		if err := checkArgs(req); err != nil {
			return err
		}
		s, err := openSession(cmd, txWallet, true)
		if err != nil {
			return err
		}
		defer s.Close()

		asset := transfer.NativeAsset(s.net.NativeCurrency)
		return runTransfer(cmd, s, asset, req, len(args) == 2)
	},
}

// requestFrom maps positional args onto a request. For NFTs the second
// arg is the token ID; otherwise it is the amount.
func requestFrom(args []string, tokenID bool) transfer.Request {
	var req transfer.Request
	if len(args) > 0 {
		req.Recipient = args[0]
	}
	if len(args) > 1 {
		if tokenID {
			req.TokenID = args[1]
		} else {
			req.Amount = args[1]
		}
	}
	return req
}

func init() {
	addTxFlags(sendCmd)
}
