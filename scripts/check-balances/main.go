// check-balances: reads the ETH and token balance of each address on Base
// and Base Sepolia in parallel and prints a summary table.
//
// Run from the module root:
//
//	go run ./scripts/check-balances 0xADDR [0xADDR...]
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/transfer"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

const rpcTimeout = 12 * time.Second

type result struct {
	network string
	wallet  string
	native  string
	token   string
	note    string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: check-balances 0xADDR [0xADDR...]")
		os.Exit(2)
	}
	var wallets []common.Address
	for _, a := range os.Args[1:] {
		addr, err := transfer.ParseAddress(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
			os.Exit(2)
		}
		wallets = append(wallets, addr)
	}
	token := common.HexToAddress(config.DefaultTokenAddress)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)
	for _, n := range chain.NewRegistry().All() {
		for _, w := range wallets {
			wg.Add(1)
			go func(n chain.Network, w common.Address) {
				defer wg.Done()
				r := check(n, w, token)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}(n, w)
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].network != results[j].network {
			return results[i].network < results[j].network
		}
		return results[i].wallet < results[j].wallet
	})

	t := ui.NewTable([]ui.Column{
		{Title: "Network", Width: 14},
		{Title: "Wallet", Width: 12},
		{Title: "ETH", Width: 20, Align: ui.AlignRight},
		{Title: "Token", Width: 20, Align: ui.AlignRight},
		{Title: "Note", Width: 24},
	})
	for _, r := range results {
		t.AddRow(ui.Row{r.network, r.wallet, r.native, r.token, r.note})
	}
	fmt.Print(t.Render())
}

func check(n chain.Network, w, token common.Address) result {
	r := result{network: n.Name, wallet: ui.TruncateAddr(w.Hex()), native: "-", token: "-"}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	client, err := chain.Dial(ctx, n.PublicRPC)
	if err != nil {
		r.note = "unreachable"
		return r
	}
	defer client.Close()

	// Quick ping first; skip networks that don't respond.
	if _, _, err := client.Ping(ctx); err != nil {
		r.note = "unreachable"
		return r
	}

	bal, err := client.NativeBalance(ctx, w)
	if err != nil {
		r.note = err.Error()
		return r
	}
	r.native = chain.FormatUnits(bal, n.NativeDecimals)

	tok := contract.NewToken(client, token)
	dec, err := tok.Decimals(ctx)
	if err != nil {
		r.note = "no token contract"
		return r
	}
	tb, err := tok.BalanceOf(ctx, w, dec)
	if err != nil {
		r.note = err.Error()
		return r
	}
	r.token = tb.String()
	return r
}
