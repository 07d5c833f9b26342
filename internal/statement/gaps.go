package statement

import (
	"sort"
	"time"
)

// maxPermutedGroup bounds the permutation search in Reorder. Same-timestamp
// groups larger than this keep their insertion order.
const maxPermutedGroup = 6

// OpeningBalance infers the balance before the first line that reports one.
// With no balance-bearing lines at all there is nothing to anchor on and the
// opening is zero.
func OpeningBalance(lines []*Line) int64 {
	running := int64(0)

	for _, l := range lines {
		if l.Balance != nil {
			return *l.Balance - l.Amount - running
		}

		running += l.Amount
	}

	return 0
}

// ComputeGaps walks ordered lines against a running balance and returns the
// synthetic gap lines needed wherever a reported balance disagrees with the
// sum of everything seen before it. The returned total is the sum of
// absolute gap amounts, the quantity Reorder minimizes.
func ComputeGaps(lines []*Line, opening int64) ([]*Line, int64) {
	var gaps []*Line

	var total int64

	running := opening

	for _, l := range lines {
		if l.Balance == nil {
			running += l.Amount
			continue
		}

		expectedBefore := *l.Balance - l.Amount
		if diff := expectedBefore - running; diff != 0 {
			gaps = append(gaps, &Line{
				StatementID: l.StatementID,
				Date:        l.Date,
				Reference:   GapReference,
				Narration:   "GAP",
				Amount:      diff,
				IsGap:       true,
				Sequence:    l.Sequence,
			})

			if diff < 0 {
				total -= diff
			} else {
				total += diff
			}
		}

		running = *l.Balance
	}

	return gaps, total
}

// Reorder sorts lines by timestamp and, within groups sharing one timestamp,
// picks the permutation whose gap total is smallest. Notification order is
// not reliable when several movements land in the same minute, so the
// balance chain is the better witness for the true sequence.
func Reorder(lines []*Line, opening int64) []*Line {
	ordered := make([]*Line, len(lines))
	copy(ordered, lines)

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}

		return ordered[i].Sequence < ordered[j].Sequence
	})

	var groups [][]*Line

	var current []*Line

	var currentDate time.Time

	for _, l := range ordered {
		if len(current) > 0 && !l.Date.Equal(currentDate) {
			groups = append(groups, current)
			current = nil
		}

		currentDate = l.Date
		current = append(current, l)
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	best := make([]*Line, 0, len(ordered))
	running := opening

	for _, group := range groups {
		arrangement := bestArrangement(group, running)
		best = append(best, arrangement...)

		for _, l := range arrangement {
			if l.Balance != nil {
				running = *l.Balance
			} else {
				running += l.Amount
			}
		}
	}

	for i, l := range best {
		l.Sequence = i
	}

	return best
}

func bestArrangement(group []*Line, opening int64) []*Line {
	if len(group) < 2 || len(group) > maxPermutedGroup {
		return group
	}

	best := group
	_, bestTotal := ComputeGaps(group, opening)

	permute(group, 0, func(candidate []*Line) {
		_, total := ComputeGaps(candidate, opening)
		if total < bestTotal {
			bestTotal = total
			best = make([]*Line, len(candidate))
			copy(best, candidate)
		}
	})

	return best
}

func permute(lines []*Line, k int, visit func([]*Line)) {
	if k == len(lines) {
		visit(lines)
		return
	}

	for i := k; i < len(lines); i++ {
		lines[k], lines[i] = lines[i], lines[k]
		permute(lines, k+1, visit)
		lines[k], lines[i] = lines[i], lines[k]
	}
}
