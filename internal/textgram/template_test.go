package textgram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/remitd/internal/textgram"
)

const balanceChangeGrammar = `
# TK **0080 thay doi  - VND 990,000. So du kha dung: VND 118,737,599. CONG TY ...
# January 28, 2022 at 09:34AM
Value Required ACCOUNT (\S+)
Value PAYMENT_TYPE ([\-+]|debit|credit)
Value AMOUNT ((\d+,?)+)
Value AMOUNT_CURRENCY ([A-Z]{3})
Value BALANCE ((\d+,?)+)
Value BALANCE_CURRENCY ([A-Z]{3})
Value MESSAGE (.+)
Value DATE ((Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)(.+))

Start
  ^(\s+)?TK(\s+)${ACCOUNT}\s+(thay doi|thanh toan the Ghi no)\s+${PAYMENT_TYPE}\s+${AMOUNT_CURRENCY}\s+${AMOUNT}\.(.+)So du kha dung:(\s+)${BALANCE_CURRENCY}\s+${BALANCE}\.(\s+)?${MESSAGE}
  ^(\s+)?${DATE}(\s+)? -> Record

EOF
`

const cardApprovalGrammar = `
Value Required ACCOUNT (.+(\s+)?\(\*\*\d+\))
Value AMOUNT ((\d+,?)+)
Value BALANCE ((\d+,?)+)
Value BALANCE_CURRENCY ([A-Z]{3})
Value MESSAGE (.+)
Value DATE (\d{2}\-\d{2}\-\d{4}/\d{2}:\d{2})

Start
  ^(\s+|.+Message text:\s+)?Transaction Approved(\s+)?${ACCOUNT}(\s+)?${DATE}/${AMOUNT}/${MESSAGE},(Remaining Credit limit|Available balance):(\s+)?${BALANCE}(\s+)?(\(${BALANCE_CURRENCY}\)?)? -> Record

EOF
`

const balanceChangeBody = `TK **0080 thay doi  - VND 990,000. So du kha dung: VND 118,737,599. CONG TY TNHH THUONG MAI VA DICH VU . NTP TECH TT TIEN KE TRUNG BAY SP..BILL/2022/01/0007 .NTP TECH PAY BRUSH MONSTER POP
From
January 28, 2022 at 09:34AM
via Android
Manage
TK **0080 thay doi +  VND 73,437,293. So du kha dung: VND 149,590,658. CONG TY CO PHAN NTP-TECH. Internal transfer
From
February 07, 2022 at 03:21PM
via Android
Manage
`

func TestTemplate_ParseTwoLineRecords(t *testing.T) {
	tmpl, err := textgram.Compile("balance-change", balanceChangeGrammar)
	require.NoError(t, err)

	records := tmpl.Parse(balanceChangeBody)
	require.Len(t, records, 2)

	assert.Equal(t, "**0080", records[0]["ACCOUNT"])
	assert.Equal(t, "-", records[0]["PAYMENT_TYPE"])
	assert.Equal(t, "990,000", records[0]["AMOUNT"])
	assert.Equal(t, "VND", records[0]["AMOUNT_CURRENCY"])
	assert.Equal(t, "118,737,599", records[0]["BALANCE"])
	assert.Equal(t, "VND", records[0]["BALANCE_CURRENCY"])
	assert.Equal(t, "January 28, 2022 at 09:34AM", records[0]["DATE"])

	assert.Equal(t, "+", records[1]["PAYMENT_TYPE"])
	assert.Equal(t, "73,437,293", records[1]["AMOUNT"])
	assert.Equal(t, "CONG TY CO PHAN NTP-TECH. Internal transfer", records[1]["MESSAGE"])
	assert.Equal(t, "February 07, 2022 at 03:21PM", records[1]["DATE"])
}

func TestTemplate_ParseIsIdempotent(t *testing.T) {
	tmpl, err := textgram.Compile("balance-change", balanceChangeGrammar)
	require.NoError(t, err)

	first := tmpl.Parse(balanceChangeBody)
	second := tmpl.Parse(balanceChangeBody)

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
}

func TestTemplate_ParseSingleLineRecord(t *testing.T) {
	tmpl, err := textgram.Compile("card-approval", cardApprovalGrammar)
	require.NoError(t, err)

	body := "Transaction Approved PARK JONG HYUN(**40) 17-02-2022/19:17/857,000/KANG NAM MEON OK,Remaining Credit limit: 47,695,778"

	records := tmpl.Parse(body)
	require.Len(t, records, 1)

	assert.Equal(t, "PARK JONG HYUN(**40)", records[0]["ACCOUNT"])
	assert.Equal(t, "857,000", records[0]["AMOUNT"])
	assert.Equal(t, "47,695,778", records[0]["BALANCE"])
	assert.Equal(t, "KANG NAM MEON OK", records[0]["MESSAGE"])
	assert.Equal(t, "17-02-2022/19:17", records[0]["DATE"])
}

func TestTemplate_RequiredValueSuppressesRecord(t *testing.T) {
	grammar := `
Value Required ACCOUNT (\d{4})
Value DATE (\d{2}:\d{2})

Start
  ^acct ${ACCOUNT}
  ^at ${DATE} -> Record
`

	tmpl, err := textgram.Compile("required", grammar)
	require.NoError(t, err)

	// Date line arrives without a preceding data line: nothing to emit.
	records := tmpl.Parse("at 09:34\nacct 1234\nat 10:00\n")
	require.Len(t, records, 1)
	assert.Equal(t, "1234", records[0]["ACCOUNT"])
	assert.Equal(t, "10:00", records[0]["DATE"])
}

func TestTemplate_AccumulatorResetsAfterRecord(t *testing.T) {
	grammar := `
Value Required ACCOUNT (\d{4})
Value MESSAGE (\w+)
Value DATE (\d{2}:\d{2})

Start
  ^acct ${ACCOUNT} msg ${MESSAGE}
  ^at ${DATE} -> Record
`

	tmpl, err := textgram.Compile("reset", grammar)
	require.NoError(t, err)

	body := "acct 1234 msg hello\nat 09:00\nat 10:00\n"

	// The second date line follows an emitted record; the account must not
	// leak from the previous row.
	records := tmpl.Parse(body)
	require.Len(t, records, 1)
	assert.Equal(t, "09:00", records[0]["DATE"])
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
	}{
		{"no values", "Start\n  ^x -> Record\n"},
		{"no rules", "Value A (\\d+)\n"},
		{"undeclared placeholder", "Value A (\\d+)\n\nStart\n  ^${B} -> Record\n"},
		{"rule before start", "Value A (\\d+)\n  ^${A} -> Record\nStart\n"},
		{"malformed value", "Value lower (\\d+)\n\nStart\n  ^x -> Record\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := textgram.Compile(tt.name, tt.grammar)
			assert.Error(t, err)
		})
	}
}

func TestTemplate_Values(t *testing.T) {
	tmpl, err := textgram.Compile("card-approval", cardApprovalGrammar)
	require.NoError(t, err)

	assert.Equal(t, []string{"ACCOUNT", "AMOUNT", "BALANCE", "BALANCE_CURRENCY", "MESSAGE", "DATE"}, tmpl.Values())
}
