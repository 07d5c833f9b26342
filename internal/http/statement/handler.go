package statement

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/reconcile"
	"github.com/hqnguyen/remitd/internal/statement"
)

type Handler struct {
	svc       *statement.Service
	reconcile *reconcile.Service
}

func NewHandler(svc *statement.Service, reconcileSvc *reconcile.Service) *Handler {
	return &Handler{svc: svc, reconcile: reconcileSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/lines", h.lines)
	r.Post("/sync", h.sync)
	r.Post("/reconcile", h.runReconcile)
}

type statementResponse struct {
	ID        uuid.UUID `json:"id"`
	JournalID uuid.UUID `json:"journal_id"`
	Key       string    `json:"key"`
	StartDate time.Time `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var journalID *uuid.UUID

	if s := r.URL.Query().Get("journal_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid journal_id", http.StatusBadRequest)
			return
		}

		journalID = &id
	}

	statements, err := h.svc.List(r.Context(), journalID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]statementResponse, len(statements))
	for i, st := range statements {
		resp[i] = statementResponse{ID: st.ID, JournalID: st.JournalID, Key: st.Key, StartDate: st.StartDate, CreatedAt: st.CreatedAt}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type lineResponse struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	Date          time.Time  `json:"date"`
	Reference     string     `json:"reference"`
	Narration     string     `json:"narration,omitempty"`
	Amount        int64      `json:"amount"`
	Balance       *int64     `json:"balance,omitempty"`
	IsGap         bool       `json:"is_gap"`
	Sequence      int        `json:"sequence"`
	PartnerID     *uuid.UUID `json:"partner_id,omitempty"`
	PaymentID     *uuid.UUID `json:"payment_id,omitempty"`
}

func (h *Handler) lines(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		if errors.Is(err, statement.ErrNotFound) {
			http.Error(w, "statement not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	lines, err := h.svc.Lines(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]lineResponse, len(lines))
	for i, l := range lines {
		resp[i] = lineResponse{
			ID:            l.ID,
			TransactionID: l.TransactionID,
			Date:          l.Date,
			Reference:     l.Reference,
			Narration:     l.Narration,
			Amount:        l.Amount,
			Balance:       l.Balance,
			IsGap:         l.IsGap,
			Sequence:      l.Sequence,
			PartnerID:     l.PartnerID,
			PaymentID:     l.PaymentID,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	synced, err := h.svc.SyncAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]int{"synced": synced}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) runReconcile(w http.ResponseWriter, r *http.Request) {
	matched, err := h.reconcile.Run(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]int{"matched": matched}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
