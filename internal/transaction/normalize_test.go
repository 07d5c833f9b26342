package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/remitd/internal/journal"
	"github.com/hqnguyen/remitd/internal/transaction"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "GroupedThousands", in: "990,000", want: 990000},
		{name: "GroupedMillions", in: "15,175,650", want: 15175650},
		{name: "NoSeparators", in: "857000", want: 857000},
		{name: "SurroundingNoise", in: " VND 73,437,293.", want: 73437293},
		{name: "NoDigits", in: "VND", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transaction.ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	type testCase struct {
		name string
		in   string
		want time.Time
	}

	// Asia/Ho_Chi_Minh is UTC+7 year-round.
	tests := []testCase{
		{
			name: "LongForm",
			in:   "January 28, 2022 at 09:34AM",
			want: time.Date(2022, 1, 28, 2, 34, 0, 0, time.UTC),
		},
		{
			name: "SlashForm",
			in:   "17-02-2022/19:17",
			want: time.Date(2022, 2, 17, 12, 17, 0, 0, time.UTC),
		},
		{
			name: "ShortUSForm",
			in:   "2/7/22 3:21 PM",
			want: time.Date(2022, 2, 7, 8, 21, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transaction.ParseLocalTime(tt.in, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseLocalTime_NoLayoutMatches(t *testing.T) {
	_, err := transaction.ParseLocalTime("via Android", time.UTC)
	assert.Error(t, err)
}

func TestClassifyDirection(t *testing.T) {
	type testCase struct {
		name        string
		token       string
		accountType journal.AccountType
		want        transaction.Direction
		wantErr     bool
	}

	tests := []testCase{
		{name: "PlusToken", token: "+", accountType: journal.AccountBank, want: transaction.DirectionInbound},
		{name: "MinusToken", token: "-", accountType: journal.AccountBank, want: transaction.DirectionOutbound},
		{name: "CreditWord", token: "credit", accountType: journal.AccountBank, want: transaction.DirectionInbound},
		{name: "DebitWord", token: "Debit", accountType: journal.AccountBank, want: transaction.DirectionOutbound},
		{name: "TokenBeatsAccountType", token: "+", accountType: journal.AccountCreditCard, want: transaction.DirectionInbound},
		{name: "CreditCardFallback", token: "", accountType: journal.AccountCreditCard, want: transaction.DirectionOutbound},
		{name: "DebitCardFallback", token: "", accountType: journal.AccountDebitCard, want: transaction.DirectionOutbound},
		{name: "BankWithoutToken", token: "", accountType: journal.AccountBank, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transaction.ClassifyDirection(tt.token, tt.accountType)
			if tt.wantErr {
				assert.ErrorIs(t, err, transaction.ErrUnknownDirection)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignedAmount(t *testing.T) {
	in := &transaction.Transaction{Amount: 990000, Direction: transaction.DirectionInbound}
	out := &transaction.Transaction{Amount: 990000, Direction: transaction.DirectionOutbound}

	assert.Equal(t, int64(990000), in.SignedAmount())
	assert.Equal(t, int64(-990000), out.SignedAmount())
}
