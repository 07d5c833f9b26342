package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/notification"
)

type messageResponse struct {
	ID         uuid.UUID          `json:"id"`
	MessageID  string             `json:"message_id"`
	Sender     string             `json:"sender,omitempty"`
	Subject    string             `json:"subject,omitempty"`
	Body       string             `json:"body"`
	State      notification.State `json:"state"`
	Attempts   int                `json:"attempts"`
	ReceivedAt time.Time          `json:"received_at"`
	CreatedAt  time.Time          `json:"created_at"`
}

func toResponse(m *notification.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		MessageID:  m.MessageID,
		Sender:     m.Sender,
		Subject:    m.Subject,
		Body:       m.Body,
		State:      m.State,
		Attempts:   m.Attempts,
		ReceivedAt: m.ReceivedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func toResponseList(msgs []*notification.Message) []messageResponse {
	out := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = toResponse(m)
	}

	return out
}
