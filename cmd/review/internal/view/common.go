package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a whole-unit amount with thousand separators,
// e.g. 15175650 -> "15,175,650".
func FormatAmount(v int64) string {
	return amountPrinter.Sprintf("%d", v)
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
