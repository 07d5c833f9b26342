package payment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hqnguyen/remitd/internal/payment"
)

func TestHashContent(t *testing.T) {
	got := payment.HashContent("ACME CO payment for invoice 42")

	assert.Len(t, got, 12)
	assert.Regexp(t, `^puid[0-9a-f]{8}$`, got)

	// Same content, same id.
	assert.Equal(t, got, payment.HashContent("ACME CO payment for invoice 42"))
	assert.NotEqual(t, got, payment.HashContent("ACME CO payment for invoice 43"))
}

func TestExtract(t *testing.T) {
	type testCase struct {
		name      string
		reference string
		want      []string
	}

	tests := []testCase{
		{
			name:      "SingleHashToken",
			reference: "CONG TY ACME puid3fa94c21 thanh toan",
			want:      []string{"puid3fa94c21"},
		},
		{
			name:      "LegacyJournalSequence",
			reference: "NTP TECH TT TIEN..BNK1/2022/0042 .thanh toan",
			want:      []string{"bnk1/2022/0042"},
		},
		{
			name:      "PipeSeparatedMix",
			reference: "puidaabbccdd|CSH2/2022/0007|no token here",
			want:      []string{"puidaabbccdd", "csh2/2022/0007"},
		},
		{
			name:      "DuplicatesCollapse",
			reference: "puidaabbccdd..puidaabbccdd",
			want:      []string{"puidaabbccdd"},
		},
		{
			name:      "NoTokens",
			reference: "Internal transfer",
			want:      nil,
		},
		{
			// Banks uppercase transfer memos; the embedded id must
			// survive that.
			name:      "UppercasedMemoStillYieldsToken",
			reference: "CK DEN 990000 PUID3FA94C21 TU ACME",
			want:      []string{"puid3fa94c21"},
		},
		{
			name:      "MixedCaseCollapsesWithLowercase",
			reference: "PUID3FA94C21..puid3fa94c21",
			want:      []string{"puid3fa94c21"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payment.Extract(tt.reference))
		})
	}
}
