package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/push"
)

var testPipeline = metrics.NewPipeline()

type fakeStagingService struct {
	company *push.Company
	staged  []push.EventParams
}

func (f *fakeStagingService) Company(_ context.Context, id uuid.UUID) (*push.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, push.ErrNotFound
	}

	return f.company, nil
}

func (f *fakeStagingService) CreateFromEvent(_ context.Context, params push.EventParams) (*push.Staging, error) {
	f.staged = append(f.staged, params)

	return &push.Staging{ID: uuid.New(), CompanyID: params.CompanyID, InvoiceNo: params.InvoiceNo}, nil
}

func serveInvoice(t *testing.T, svc StagingService, companyID string, apiKey, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Post("/webhook/tax-invoice/{companyUUID}", NewHandler(svc, testPipeline).TaxInvoice)

	req := httptest.NewRequest(http.MethodPost, "/webhook/tax-invoice/"+companyID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestTaxInvoice_StagesValidEvent(t *testing.T) {
	companyID := uuid.New()
	svc := &fakeStagingService{
		company: &push.Company{
			ID:                 companyID,
			Name:               "ACME Trading",
			TaxCode:            "0312345678",
			APIKey:             "secret-key",
			IntegrationEnabled: true,
		},
	}

	body := `{"payload":{"invoice_no":"INV-2026-001","seller_tax_code":"0399999999","buyer_tax_code":"0312345678","total_amount":1500000,"issued_at":"2026-08-20T10:00:00Z"}}`

	rec := serveInvoice(t, svc, companyID.String(), "secret-key", body)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, svc.staged, 1)
	assert.Equal(t, companyID, svc.staged[0].CompanyID)
	assert.Equal(t, "INV-2026-001", svc.staged[0].InvoiceNo)
	assert.Equal(t, "0399999999", svc.staged[0].SellerTaxCode)
	assert.Equal(t, int64(1500000), svc.staged[0].Amount)
	assert.Equal(t, time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC), svc.staged[0].IssuedAt.UTC())
	assert.JSONEq(t, body, string(svc.staged[0].RawPayload))
}

func TestTaxInvoice_RejectionsAnswer204WithoutDetail(t *testing.T) {
	companyID := uuid.New()

	company := &push.Company{
		ID:                 companyID,
		Name:               "ACME Trading",
		TaxCode:            "0312345678",
		APIKey:             "secret-key",
		IntegrationEnabled: true,
	}

	validBody := `{"payload":{"invoice_no":"INV-1","buyer_tax_code":"0312345678","total_amount":100}}`

	tests := []struct {
		name      string
		company   *push.Company
		companyID string
		apiKey    string
		body      string
	}{
		{
			name:      "UnknownCompany",
			company:   nil,
			companyID: uuid.NewString(),
			apiKey:    "secret-key",
			body:      validBody,
		},
		{
			name:      "MalformedCompanyID",
			company:   company,
			companyID: "not-a-uuid",
			apiKey:    "secret-key",
			body:      validBody,
		},
		{
			name: "IntegrationDisabled",
			company: &push.Company{
				ID:      companyID,
				TaxCode: "0312345678",
				APIKey:  "secret-key",
			},
			companyID: companyID.String(),
			apiKey:    "secret-key",
			body:      validBody,
		},
		{
			name:      "WrongAPIKey",
			company:   company,
			companyID: companyID.String(),
			apiKey:    "wrong-key",
			body:      validBody,
		},
		{
			name:      "MissingAPIKey",
			company:   company,
			companyID: companyID.String(),
			apiKey:    "",
			body:      validBody,
		},
		{
			name:      "BuyerTaxCodeMismatch",
			company:   company,
			companyID: companyID.String(),
			apiKey:    "secret-key",
			body:      `{"payload":{"invoice_no":"INV-1","buyer_tax_code":"9999999999","total_amount":100}}`,
		},
		{
			name:      "MalformedBody",
			company:   company,
			companyID: companyID.String(),
			apiKey:    "secret-key",
			body:      `{"payload":`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeStagingService{company: tc.company}

			rec := serveInvoice(t, svc, tc.companyID, tc.apiKey, tc.body)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Body.String())
			assert.Empty(t, svc.staged)
		})
	}
}
