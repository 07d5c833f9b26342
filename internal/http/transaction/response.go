package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/transaction"
)

type transactionResponse struct {
	ID         uuid.UUID             `json:"id"`
	JournalID  uuid.UUID             `json:"journal_id"`
	MessageID  *uuid.UUID            `json:"message_id,omitempty"`
	ExternalID string                `json:"external_id"`
	Account    string                `json:"account"`
	Direction  transaction.Direction `json:"direction"`
	Status     transaction.Status    `json:"status"`
	Amount     int64                 `json:"amount"`
	Balance    *int64                `json:"balance,omitempty"`
	Currency   string                `json:"currency"`
	Message    string                `json:"message,omitempty"`
	PostedAt   time.Time             `json:"posted_at"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  *time.Time            `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		JournalID:  tx.JournalID,
		MessageID:  tx.MessageID,
		ExternalID: tx.ExternalID,
		Account:    tx.Account,
		Direction:  tx.Direction,
		Status:     tx.Status,
		Amount:     tx.Amount,
		Balance:    tx.Balance,
		Currency:   tx.Currency,
		Message:    tx.Message,
		PostedAt:   tx.PostedAt,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
