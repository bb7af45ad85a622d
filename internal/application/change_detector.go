package application

import "github.com/bnema/paymail/internal/domain"

// Diff compares two snapshots position by position. Index i in previous is
// assumed to be the same vendor as index i in current; rows only present in
// one of the two produce nothing. Reordering or removing rows between
// snapshots therefore shows up as spurious transitions for every row below
// the change.
func Diff(previous, current []domain.VendorRecord) []domain.Transition {
	n := len(previous)
	if len(current) < n {
		n = len(current)
	}

	transitions := make([]domain.Transition, 0)
	for i := 0; i < n; i++ {
		if previous[i].Status == current[i].Status {
			continue
		}
		transitions = append(transitions, domain.Transition{
			Index:     i,
			Vendor:    current[i],
			OldStatus: previous[i].Status,
			NewStatus: current[i].Status,
		})
	}

	return transitions
}

// Qualifying keeps the transitions that trigger a payment confirmation.
func Qualifying(transitions []domain.Transition) []domain.Transition {
	out := make([]domain.Transition, 0, len(transitions))
	for _, transition := range transitions {
		if transition.Qualifies() {
			out = append(out, transition)
		}
	}
	return out
}
