// Package reconcile matches bank statement lines to the payments that
// explain them and assigns partners only on unambiguous evidence.
package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"github.com/hqnguyen/remitd/internal/payment"
	"github.com/hqnguyen/remitd/internal/statement"
)

// Options selects the active matching strategies. A disabled strategy simply
// contributes no candidates.
type Options struct {
	MatchReference bool
	MatchPUID      bool
}

const (
	StrategyReference = "reference"
	StrategyPUID      = "puid"
)

// Candidate is one payment that could explain a statement line.
type Candidate struct {
	PaymentID uuid.UUID
	PartnerID uuid.UUID
	Strategy  string
}

// MatchLine collects every payment whose reference or embedded identifier
// places it on the line. Strategies are OR'd; one payment can appear once
// per strategy.
func MatchLine(line *statement.Line, payments []*payment.Payment, opts Options) []Candidate {
	var candidates []Candidate

	lineRef := squeeze(line.Reference)
	lineNarration := squeeze(line.Narration)
	tokens := tokenSet(line)

	for _, p := range payments {
		if opts.MatchReference && p.Reference != "" {
			ref := squeeze(p.Reference)
			if ref == lineRef || ref == lineNarration {
				candidates = append(candidates, Candidate{PaymentID: p.ID, PartnerID: p.PartnerID, Strategy: StrategyReference})
			}
		}

		if opts.MatchPUID {
			// Extract lower-cases its tokens, so both lookups do too.
			if _, ok := tokens[strings.ToLower(p.PUID)]; ok && p.PUID != "" {
				candidates = append(candidates, Candidate{PaymentID: p.ID, PartnerID: p.PartnerID, Strategy: StrategyPUID})
				continue
			}

			// Payments transferred before content hashing only carry
			// their posted name.
			if _, ok := tokens[strings.ToLower(p.Reference)]; ok && p.Reference != "" {
				candidates = append(candidates, Candidate{PaymentID: p.ID, PartnerID: p.PartnerID, Strategy: StrategyPUID})
			}
		}
	}

	return candidates
}

// Resolve applies the assignment rule: exactly one distinct partner among
// the candidates gets assigned; zero or several leave the line untouched,
// ambiguity being for a human to settle.
func Resolve(candidates []Candidate) (*Candidate, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	first := candidates[0]

	for _, c := range candidates[1:] {
		if c.PartnerID != first.PartnerID {
			return nil, true
		}
	}

	return &first, false
}

// squeeze drops every whitespace character; banks reflow memos unpredictably
// so only the glyphs are trustworthy.
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func tokenSet(line *statement.Line) map[string]struct{} {
	set := map[string]struct{}{}

	for _, t := range payment.Extract(line.Narration) {
		set[t] = struct{}{}
	}

	for _, t := range payment.Extract(line.Reference) {
		set[t] = struct{}{}
	}

	return set
}
