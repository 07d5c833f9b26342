package payment

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"text/template"
)

// ContentData is the namespace a partner's content template renders against.
type ContentData struct {
	PartnerName string
	Amount      string
	Currency    string
	Memo        string
	Reference   string
}

// RenderContent produces a payment's transfer memo from its partner's
// template. Partners without a template fall back to "<name> <memo>".
func RenderContent(p *Payment, partner *Partner) (string, error) {
	data := ContentData{
		PartnerName: partner.Name,
		Amount:      strconv.FormatInt(p.Amount, 10),
		Currency:    p.Currency,
		Memo:        p.Memo,
		Reference:   p.Reference,
	}

	if partner.ContentTemplate == "" {
		return data.PartnerName + " " + data.Memo, nil
	}

	tmpl, err := template.New(partner.Name).Parse(partner.ContentTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing content template for %s: %w", partner.Name, err)
	}

	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering content for %s: %w", partner.Name, err)
	}

	return buf.String(), nil
}

// RenderBulkTransfer builds the CSV banks accept for batched transfers: one
// row per payment with the partner's account details and the final content.
func RenderBulkTransfer(payments []*Payment) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"beneficiary", "account", "bank", "amount", "currency", "content"}); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, p := range payments {
		if p.Partner == nil {
			return nil, fmt.Errorf("payment %s has no partner loaded", p.ID)
		}

		row := []string{
			p.Partner.Name,
			p.Partner.BankAccount,
			p.Partner.BankName,
			strconv.FormatInt(p.Amount, 10),
			p.Currency,
			p.Content,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row for %s: %w", p.ID, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}
