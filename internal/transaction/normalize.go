package transaction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hqnguyen/remitd/internal/journal"
)

var ErrUnknownDirection = errors.New("cannot classify transaction direction")

var nonDigits = regexp.MustCompile(`[^\d]`)

// ParseAmount converts a captured amount string to integer minor units.
// Bank texts use grouping separators but no decimal fraction, so every
// non-digit is noise: "990,000" is 990000, "15,175,650" is 15175650.
func ParseAmount(s string) (int64, error) {
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return 0, fmt.Errorf("no digits in amount %q", s)
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.IntPart(), nil
}

// dateLayouts are the timestamp shapes the supported banks emit, in the
// order they are tried.
var dateLayouts = []string{
	"January 2, 2006 at 03:04PM",
	"02-01-2006/15:04",
	"1/2/06 3:04 PM",
}

// ParseLocalTime parses a captured DATE string as wall-clock time in the
// bank's timezone and returns it in UTC. The caller falls back to the
// message's received timestamp when no layout matches.
func ParseLocalTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("no layout matches date %q", s)
}

// ClassifyDirection decides money flow for a parsed record. An explicit
// payment-type token wins; without one, card accounts are spend-only so the
// movement is outbound; anything else is unclassifiable and the candidate
// must be dropped.
func ClassifyDirection(token string, accountType journal.AccountType) (Direction, error) {
	switch strings.TrimSpace(strings.ToLower(token)) {
	case "+", "credit":
		return DirectionInbound, nil
	case "-", "debit":
		return DirectionOutbound, nil
	}

	switch accountType {
	case journal.AccountCreditCard, journal.AccountDebitCard:
		return DirectionOutbound, nil
	}

	return "", fmt.Errorf("%w: token %q, account type %q", ErrUnknownDirection, token, accountType)
}
