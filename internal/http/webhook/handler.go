package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/push"
)

// StagingService is the slice of *push.Service the webhook needs.
type StagingService interface {
	Company(ctx context.Context, id uuid.UUID) (*push.Company, error)
	CreateFromEvent(ctx context.Context, params push.EventParams) (*push.Staging, error)
}

type Handler struct {
	svc      StagingService
	pipeline *metrics.Pipeline
}

func NewHandler(svc StagingService, pipeline *metrics.Pipeline) *Handler {
	return &Handler{svc: svc, pipeline: pipeline}
}

type invoicePayload struct {
	InvoiceNo     string `json:"invoice_no"`
	SellerTaxCode string `json:"seller_tax_code"`
	BuyerTaxCode  string `json:"buyer_tax_code"`
	TotalAmount   int64  `json:"total_amount"`
	IssuedAt      string `json:"issued_at"`
}

type invoiceEvent struct {
	Payload invoicePayload `json:"payload"`
}

// TaxInvoice accepts an inbound invoice event for a company. The sender is a
// third party we cannot ask to retry intelligently, so every rejection is
// logged server-side and answered with a bare 204: no detail ever leaks back
// about which validation failed.
func (h *Handler) TaxInvoice(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	companyID, err := uuid.Parse(chi.URLParam(r, "companyUUID"))
	if err != nil {
		slog.Warn("webhook rejected", "reason", "invalid company uuid", "error", err)
		return
	}

	company, err := h.svc.Company(r.Context(), companyID)
	if err != nil {
		slog.Warn("webhook rejected", "reason", "company lookup failed", "company_id", companyID, "error", err)
		return
	}

	if !company.IntegrationEnabled {
		slog.Warn("webhook rejected", "reason", "integration disabled", "company_id", companyID)
		return
	}

	if r.Header.Get("X-API-KEY") != company.APIKey {
		slog.Warn("webhook rejected", "reason", "api key mismatch", "company_id", companyID)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Warn("webhook rejected", "reason", "unreadable body", "company_id", companyID, "error", err)
		return
	}

	var event invoiceEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Warn("webhook rejected", "reason", "malformed payload", "company_id", companyID, "error", err)
		return
	}

	if event.Payload.BuyerTaxCode != company.TaxCode {
		slog.Warn("webhook rejected", "reason", "buyer tax code mismatch", "company_id", companyID)
		return
	}

	issuedAt, err := time.Parse(time.RFC3339, event.Payload.IssuedAt)
	if err != nil {
		issuedAt = time.Now().UTC()
	}

	st, err := h.svc.CreateFromEvent(r.Context(), push.EventParams{
		CompanyID:     companyID,
		InvoiceNo:     event.Payload.InvoiceNo,
		SellerTaxCode: event.Payload.SellerTaxCode,
		BuyerTaxCode:  event.Payload.BuyerTaxCode,
		Amount:        event.Payload.TotalAmount,
		IssuedAt:      issuedAt,
		RawPayload:    body,
	})
	if err != nil {
		slog.Error("staging invoice event", "company_id", companyID, "error", err)
		return
	}

	h.pipeline.RecordMessageReceived(company.Name)
	slog.Info("invoice event staged", "company_id", companyID, "staging_id", st.ID, "invoice_no", st.InvoiceNo)
}
