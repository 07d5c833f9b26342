package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hqnguyen/remitd/internal/transaction"
)

// ReviewModel walks the draft-transaction queue one entry at a time so each
// parsed notification can be posted to its journal or skipped.
type ReviewModel struct {
	CommonModel
	txService *transaction.Service

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction

	// Confirm dialog shown before a decision is written.
	form          *huh.Form
	confirmed     bool
	pendingStatus transaction.Status

	status     string
	loading    bool
	totalCount int
}

func NewReviewModel(txSvc *transaction.Service) ReviewModel {
	return ReviewModel{
		txService: txSvc,
		status:    "Loading drafts...",
		loading:   true,
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadDraftsCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "p":
			if m.currentTx != nil {
				return m.enterConfirm(transaction.StatusPosted)
			}
		case "s":
			if m.currentTx != nil {
				return m.enterConfirm(transaction.StatusSkipped)
			}
		}

	case loadDraftsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading drafts: %v", msg.err)
			break
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)
		m.nextTx()

	case decideResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			break
		}

		m.nextTx()
	}

	return m, nil
}

func (m ReviewModel) enterConfirm(status transaction.Status) (tea.Model, tea.Cmd) {
	verb := "Post"
	if status == transaction.StatusSkipped {
		verb = "Skip"
	}

	m.pendingStatus = status
	m.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s this transaction?", verb)).
				Affirmative("Yes").
				Negative("No").
				Value(&m.confirmed),
		),
	).WithWidth(40).WithShowHelp(false)

	return m, m.form.Init()
}

func (m ReviewModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := m.confirmed
	status := m.pendingStatus
	m.form = nil

	if !confirmed {
		return m, nil
	}

	return m, m.decideCmd(m.currentTx, status)
}

func (m ReviewModel) View() string {
	content := ""

	switch {
	case m.loading:
		content = "Loading drafts..."
	case m.currentTx != nil:
		tx := m.currentTx

		sign := "+"
		if tx.Direction == transaction.DirectionOutbound {
			sign = "-"
		}

		balance := "n/a"
		if tx.Balance != nil {
			balance = FormatAmount(*tx.Balance)
		}

		info := fmt.Sprintf(
			"Date:    %s\nAccount: %s\nAmount:  %s%s %s\nBalance: %s\nRaw:     %s\n",
			FormatDate(tx.PostedAt),
			tx.Account,
			sign, FormatAmount(tx.Amount), tx.Currency,
			balance,
			tx.Message,
		)
		content = fmt.Sprintf("%s\n\n%s\n(p: post, s: skip, Esc: back)", m.status, info)
		if m.form != nil {
			content += "\n\n" + m.form.View()
		}
	default:
		content = m.status + "\n\n(Esc to back)"
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func (m *ReviewModel) nextTx() {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done! No more drafts."

		return
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]

	currentIdx := m.totalCount - len(m.queue)
	m.status = fmt.Sprintf("Reviewing %d/%d", currentIdx, m.totalCount)
}

type loadDraftsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReviewModel) loadDraftsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		status := transaction.StatusDraft
		txs, err := m.txService.List(ctx, transaction.ListFilter{Status: &status})

		return loadDraftsMsg{txs: txs, err: err}
	}
}

type decideResultMsg struct {
	err error
}

func (m ReviewModel) decideCmd(tx *transaction.Transaction, status transaction.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if status == transaction.StatusPosted {
			err = m.txService.Post(ctx, tx.ID)
		} else {
			err = m.txService.Skip(ctx, tx.ID)
		}

		return decideResultMsg{err: err}
	}
}
