package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/payment"
)

type Handler struct {
	svc *payment.Service
}

func NewHandler(svc *payment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/content", h.generateContent)
	r.Post("/{id}/transferred", h.markTransferred)
	r.Post("/export", h.exportBulk)
}

type paymentResponse struct {
	ID        uuid.UUID      `json:"id"`
	PartnerID uuid.UUID      `json:"partner_id"`
	JournalID uuid.UUID      `json:"journal_id"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	Memo      string         `json:"memo,omitempty"`
	Content   string         `json:"content,omitempty"`
	PUID      string         `json:"puid,omitempty"`
	Reference string         `json:"reference,omitempty"`
	Status    payment.Status `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func toResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		PartnerID: p.PartnerID,
		JournalID: p.JournalID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Memo:      p.Memo,
		Content:   p.Content,
		PUID:      p.PUID,
		Reference: p.Reference,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := payment.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := payment.Status(s)
		filter.Status = &status
	}

	if s := r.URL.Query().Get("partner_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.PartnerID = &id
		}
	}

	payments, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) generateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	content, err := h.svc.GenerateContent(r.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]string{"content": content}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) markTransferred(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.MarkTransferred(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type exportRequest struct {
	PaymentIDs []uuid.UUID `json:"payment_ids"`
}

func (h *Handler) exportBulk(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.PaymentIDs) == 0 {
		http.Error(w, "payment_ids is required", http.StatusBadRequest)
		return
	}

	export, err := h.svc.ExportBulk(r.Context(), req.PaymentIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := map[string]string{
		"token":    export.Token,
		"filename": export.Filename,
		"url":      "/download/bulk-transfer?token=" + export.Token,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Download streams a previously generated bulk-transfer file by token. It is
// mounted outside /api/v1 so the link can be handed straight to a browser.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	export, err := h.svc.ExportByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, payment.ErrExportNotFound) {
			http.Error(w, "export not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))

	if _, err := w.Write(export.Content); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
