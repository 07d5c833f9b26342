package payment_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/remitd/internal/payment"
)

func TestRenderContent(t *testing.T) {
	partner := &payment.Partner{
		Name:            "ACME CO",
		ContentTemplate: "{{.PartnerName}} {{.Memo}} {{.Reference}}",
	}
	p := &payment.Payment{
		Amount:    990000,
		Currency:  "VND",
		Memo:      "invoice 42",
		Reference: "BNK1/2022/0042",
	}

	got, err := payment.RenderContent(p, partner)
	require.NoError(t, err)
	assert.Equal(t, "ACME CO invoice 42 BNK1/2022/0042", got)
}

func TestRenderContent_NoTemplateFallsBack(t *testing.T) {
	got, err := payment.RenderContent(
		&payment.Payment{Memo: "invoice 42"},
		&payment.Partner{Name: "ACME CO"},
	)
	require.NoError(t, err)
	assert.Equal(t, "ACME CO invoice 42", got)
}

func TestRenderContent_BadTemplate(t *testing.T) {
	_, err := payment.RenderContent(
		&payment.Payment{},
		&payment.Partner{Name: "ACME CO", ContentTemplate: "{{.Broken"},
	)
	assert.Error(t, err)
}

func TestRenderBulkTransfer(t *testing.T) {
	payments := []*payment.Payment{
		{
			ID:       uuid.New(),
			Amount:   990000,
			Currency: "VND",
			Content:  "ACME CO invoice 42 puid3fa94c21",
			Partner:  &payment.Partner{Name: "ACME CO", BankAccount: "0123456789", BankName: "VCB"},
		},
	}

	got, err := payment.RenderBulkTransfer(payments)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(got)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "beneficiary,account,bank,amount,currency,content", lines[0])
	assert.Equal(t, "ACME CO,0123456789,VCB,990000,VND,ACME CO invoice 42 puid3fa94c21", lines[1])
}

func TestRenderBulkTransfer_PartnerNotLoaded(t *testing.T) {
	_, err := payment.RenderBulkTransfer([]*payment.Payment{{ID: uuid.New()}})
	assert.Error(t, err)
}
