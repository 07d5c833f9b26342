package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListPayments(ctx context.Context, filter ListFilter) ([]*Payment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	// AssignPUID sets the PUID only when it is still empty.
	AssignPUID(ctx context.Context, id uuid.UUID, puid string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	GetPartner(ctx context.Context, id uuid.UUID) (*Partner, error)
	ListPartners(ctx context.Context) ([]*Partner, error)
	CreateExport(ctx context.Context, e *TransferExport) error
	GetExportByToken(ctx context.Context, token string) (*TransferExport, error)
}

type ListFilter struct {
	Status    *Status
	PartnerID *uuid.UUID
}

type Service struct {
	repo     Repository
	newToken func() string
}

func NewService(repo Repository) (*Service, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("creating token generator: %w", err)
	}

	return &Service{repo: repo, newToken: gen}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, filter)
}

func (s *Service) Partners(ctx context.Context) ([]*Partner, error) {
	return s.repo.ListPartners(ctx)
}

// GenerateContent renders and stores the transfer memo for a payment still
// in prepare.
func (s *Service) GenerateContent(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return "", err
	}

	partner := p.Partner
	if partner == nil {
		partner, err = s.repo.GetPartner(ctx, p.PartnerID)
		if err != nil {
			return "", err
		}
	}

	content, err := RenderContent(p, partner)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return "", err
	}

	return content, nil
}

// BeginTransfer moves a prepared payment into transferring, assigning its
// PUID from the final content. The PUID never changes after this.
func (s *Service) BeginTransfer(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Content == "" {
		if _, err := s.GenerateContent(ctx, id); err != nil {
			return nil, err
		}

		if p, err = s.repo.GetPayment(ctx, id); err != nil {
			return nil, err
		}
	}

	if p.PUID == "" {
		p.PUID = HashContent(p.Content)
		if err := s.repo.AssignPUID(ctx, id, p.PUID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusTransferring); err != nil {
		return nil, err
	}

	p.Status = StatusTransferring

	return p, nil
}

// MarkTransferred records that the bank accepted the transfer.
func (s *Service) MarkTransferred(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusTransferred)
}

// MarkReconciled records that a statement line confirmed the transfer.
func (s *Service) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusReconciled)
}

// ExportBulk begins the transfer of every listed payment and produces a
// token-addressed bulk file for download.
func (s *Service) ExportBulk(ctx context.Context, ids []uuid.UUID) (*TransferExport, error) {
	payments := make([]*Payment, 0, len(ids))

	for _, id := range ids {
		p, err := s.BeginTransfer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("beginning transfer %s: %w", id, err)
		}

		payments = append(payments, p)
	}

	content, err := RenderBulkTransfer(payments)
	if err != nil {
		return nil, err
	}

	export := &TransferExport{
		Token:    s.newToken(),
		Filename: fmt.Sprintf("bulk-transfer-%s.csv", time.Now().UTC().Format("20060102-150405")),
		Content:  content,
	}
	if err := s.repo.CreateExport(ctx, export); err != nil {
		return nil, err
	}

	return export, nil
}

func (s *Service) ExportByToken(ctx context.Context, token string) (*TransferExport, error) {
	return s.repo.GetExportByToken(ctx, token)
}
