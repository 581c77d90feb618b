package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/transfer"
)

type fieldKey int

const (
	fieldRecipient fieldKey = iota
	fieldAmount
	fieldTokenID
)

type formField struct {
	key   fieldKey
	label string
	value string
}

// FormOptions customise the transfer form.
type FormOptions struct {
	Title string
	// TxURL turns a hash into an explorer link; nil shows the bare hash.
	TxURL func(hash string) string
	// Initial pre-fills the inputs.
	Initial transfer.Request
}

type recordMsg transfer.Record

type submitDoneMsg struct {
	rec transfer.Record
	err error
}

type balanceMsg struct {
	bal chain.Amount
	err error
}

type transferModel struct {
	ctx     context.Context
	wf      *transfer.Workflow
	opts    FormOptions
	fields  []formField
	focus   int
	records chan transfer.Record
	detach  func()

	record     transfer.Record
	inputErr   string
	balance    string
	balanceErr string
	quitting   bool
}

func fieldsFor(kind transfer.Kind) []formField {
	switch kind {
	case transfer.KindTokenBurn:
		return []formField{{key: fieldAmount, label: "Amount"}}
	case transfer.KindNFT:
		return []formField{{key: fieldRecipient, label: "Recipient"}, {key: fieldTokenID, label: "Token ID"}}
	case transfer.KindTokenApprove:
		return []formField{{key: fieldRecipient, label: "Spender"}, {key: fieldAmount, label: "Amount"}}
	}
	return []formField{{key: fieldRecipient, label: "Recipient"}, {key: fieldAmount, label: "Amount"}}
}

func newTransferModel(ctx context.Context, wf *transfer.Workflow, opts FormOptions) transferModel {
	m := transferModel{
		ctx:     ctx,
		wf:      wf,
		opts:    opts,
		fields:  fieldsFor(wf.Asset().Kind),
		records: make(chan transfer.Record, 8),
		record:  wf.Record(),
	}
	for i := range m.fields {
		switch m.fields[i].key {
		case fieldRecipient:
			m.fields[i].value = opts.Initial.Recipient
		case fieldAmount:
			m.fields[i].value = opts.Initial.Amount
		case fieldTokenID:
			m.fields[i].value = opts.Initial.TokenID
		}
	}
	records := m.records
	m.detach = wf.Observe(func(r transfer.Record) {
		// Observers must not block; the final record also arrives with submitDoneMsg.
		select {
		case records <- r:
		default:
		}
	})
	m.syncForm()
	return m
}

// RunTransferForm shows the interactive form for wf until the user quits.
// It returns the last record seen.
func RunTransferForm(ctx context.Context, wf *transfer.Workflow, opts FormOptions) (transfer.Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newTransferModel(ctx, wf, opts)
	defer m.detach()

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if fm, ok := final.(transferModel); ok {
		return fm.record, err
	}
	return wf.Record(), err
}

func (m transferModel) syncForm() {
	var req transfer.Request
	for _, f := range m.fields {
		switch f.key {
		case fieldRecipient:
			req.Recipient = f.value
		case fieldAmount:
			req.Amount = f.value
		case fieldTokenID:
			req.TokenID = f.value
		}
	}
	m.wf.SetForm(req)
}

func (m transferModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.listen())
}

func (m transferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case recordMsg:
		// Notifications can queue behind each other; show the newest state.
		m.adopt(m.wf.Record())
		return m, m.listen()

	case submitDoneMsg:
		if errors.Is(msg.err, transfer.ErrValidation) {
			m.inputErr = msg.err.Error()
		}
		// Rejected submits (busy, invalid) carry an idle record and leave
		// the workflow's record alone.
		if msg.rec.State == transfer.StateIdle {
			m.adopt(m.wf.Record())
		} else {
			m.adopt(msg.rec)
		}
		return m, nil

	case balanceMsg:
		if msg.err != nil {
			m.balanceErr = msg.err.Error()
		} else {
			m.balance, m.balanceErr = msg.bal.String(), ""
		}
	}
	return m, nil
}

func (m transferModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(m.fields)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
		return m, nil
	case tea.KeyCtrlR:
		return m, m.refreshCmd()
	}

	// Input and submit are disabled while a submission is outstanding.
	if m.wf.Busy() {
		return m, nil
	}
	// The workflow may have confirmed and cleared its form before the
	// notification reached us; drop the stale inputs first.
	m.adopt(m.wf.Record())

	switch key.Type {
	case tea.KeyEnter:
		m.syncForm()
		if _, err := m.wf.Validate(); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.inputErr = ""
		return m, m.submitCmd()
	case tea.KeyBackspace:
		f := &m.fields[m.focus]
		if r := []rune(f.value); len(r) > 0 {
			f.value = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.fields[m.focus].value += string(key.Runes)
	default:
		return m, nil
	}
	m.inputErr = ""
	m.syncForm()
	return m, nil
}

// adopt displays rec. The first time a confirmed record is seen the inputs
// are cleared and the balance line picks up the reconciled snapshot.
func (m *transferModel) adopt(rec transfer.Record) {
	seen := m.record.State == transfer.StateConfirmed && m.record.Receipt == rec.Receipt
	m.record = rec
	if rec.State != transfer.StateConfirmed || seen {
		return
	}
	for i := range m.fields {
		m.fields[i].value = ""
	}
	m.focus = 0
	if b := m.wf.Balance(); b != nil {
		m.balance, m.balanceErr = b.String(), ""
	}
}

func (m transferModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.wf.Submit(m.ctx)
		return submitDoneMsg{rec: rec, err: err}
	}
}

func (m transferModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		bal, err := m.wf.RefreshBalance(m.ctx)
		return balanceMsg{bal: bal, err: err}
	}
}

func (m transferModel) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-m.records:
			return recordMsg(r)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// StateBadge renders a lifecycle state with its status color.
func StateBadge(s transfer.State) string {
	switch s {
	case transfer.StateConfirmed:
		return StyleSuccess.Render("● " + s.String())
	case transfer.StateFailed:
		return StyleError.Render("● " + s.String())
	case transfer.StatePendingSignature, transfer.StatePendingConfirmation:
		return StyleWarning.Render("◌ " + s.String())
	}
	return Meta("○ " + s.String())
}

// RenderRecord renders a record's state, hash and error. txURL may be nil.
func RenderRecord(rec transfer.Record, txURL func(string) string) string {
	var sb strings.Builder
	sb.WriteString("Status   " + StateBadge(rec.State) + "\n")
	if rec.HasHash() {
		hash := rec.Hash.Hex()
		sb.WriteString("Tx       " + Addr(hash) + "\n")
		if txURL != nil {
			sb.WriteString("Explorer " + Meta(txURL(hash)) + "\n")
		}
	}
	if rec.Receipt != nil {
		sb.WriteString(Meta(fmt.Sprintf("Block %d · gas used %d", rec.Receipt.BlockNumber, rec.Receipt.GasUsed)) + "\n")
	}
	if rec.State == transfer.StateFailed && rec.Err != nil {
		sb.WriteString(Err(rec.Err.Error()) + "\n")
	}
	return sb.String()
}

func (m transferModel) View() string {
	if m.quitting {
		return ""
	}
	asset := m.wf.Asset()

	var sb strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "Transfer " + asset.Symbol
	}
	sb.WriteString(StyleTitle.Render(title) + "\n")

	switch {
	case m.balanceErr != "":
		sb.WriteString(Warn("balance unavailable: "+m.balanceErr) + "\n\n")
	case m.balance == "":
		sb.WriteString(Meta("Balance  loading...") + "\n\n")
	default:
		sb.WriteString("Balance  " + Val(m.balance) + " " + Meta(asset.Symbol) + "\n\n")
	}

	busy := m.wf.Busy()
	for i, f := range m.fields {
		label := Meta(fmt.Sprintf("%-10s", f.label))
		style := StyleInput
		cursor := ""
		if i == m.focus && !busy {
			style = StyleInputFocused
			cursor = "█"
		}
		sb.WriteString(label + " " + style.Render(fmt.Sprintf("%-44s", f.value+cursor)) + "\n")
	}
	if m.inputErr != "" {
		sb.WriteString(Err(m.inputErr) + "\n")
	}
	sb.WriteString("\n")

	if m.record.State != transfer.StateIdle {
		sb.WriteString(RenderRecord(m.record, m.opts.TxURL) + "\n")
	}

	if busy {
		sb.WriteString(Meta("submitting · input disabled · esc to quit") + "\n")
	} else {
		sb.WriteString(Meta("enter submit · tab next field · ctrl+r refresh balance · esc quit") + "\n")
	}
	return sb.String()
}
