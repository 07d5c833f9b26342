package mailtext_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/hqnguyen/remitd/internal/mailtext"
)

func TestClean_HTMLBody(t *testing.T) {
	src := `<html><head><style>body { color: red }</style></head><body>
<p>TK **0080 thay doi  - VND 990,000. So du kha dung: VND 118,737,599. ACME CO</p>
<p>From</p>

<p>January 28, 2022 at 09:34AM</p>
<script>alert("x")</script>
</body></html>`

	got := mailtext.Clean(src)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "TK **0080 thay doi  - VND 990,000. So du kha dung: VND 118,737,599. ACME CO", lines[0])
	assert.Equal(t, "From", lines[1])
	assert.Equal(t, "January 28, 2022 at 09:34AM", lines[2])
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color: red")
}

func TestClean_PlainText(t *testing.T) {
	src := "line one\n\n\n   \nline two\n"
	assert.Equal(t, "line one\nline two", mailtext.Clean(src))
}

func TestDecodeToUTF8_PassesValidUTF8(t *testing.T) {
	got, err := mailtext.DecodeToUTF8([]byte("so du kha dụng"))
	require.NoError(t, err)
	assert.Equal(t, "so du kha dụng", got)
}

func TestDecodeToUTF8_StripsBOM(t *testing.T) {
	got, err := mailtext.DecodeToUTF8([]byte("\xEF\xBB\xBFhello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestDecodeToUTF8_LegacyBytesProduceValidUTF8(t *testing.T) {
	enc := charmap.Windows1258.NewEncoder()

	raw, err := enc.Bytes([]byte("sô dư"))
	require.NoError(t, err)
	require.False(t, utf8.Valid(raw))

	got, err := mailtext.DecodeToUTF8(raw)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got))
	assert.NotEmpty(t, got)
}