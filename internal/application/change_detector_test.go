package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/domain"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	notPaid, paid := domain.StatusNotPaid, domain.StatusPaid

	tests := []struct {
		name     string
		previous []domain.VendorRecord
		current  []domain.VendorRecord
		want     []int
	}{
		{
			name:     "no change",
			previous: []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", notPaid)},
			current:  []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", notPaid)},
			want:     []int{},
		},
		{
			name:     "status flips both ways",
			previous: []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", notPaid), vendor("2", "Beta", "b@beta.in", paid)},
			current:  []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", paid), vendor("2", "Beta", "b@beta.in", notPaid)},
			want:     []int{0, 1},
		},
		{
			name:     "appended rows are ignored",
			previous: []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", notPaid)},
			current:  []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", notPaid), vendor("2", "Beta", "b@beta.in", paid)},
			want:     []int{},
		},
		{
			name:     "removed rows are ignored",
			previous: []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", notPaid), vendor("2", "Beta", "b@beta.in", notPaid)},
			current:  []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", paid)},
			want:     []int{0},
		},
		{
			name:     "empty previous",
			previous: nil,
			current:  []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", paid)},
			want:     []int{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Diff(tt.previous, tt.current)
			indices := make([]int, 0, len(got))
			for _, transition := range got {
				indices = append(indices, transition.Index)
				assert.Equal(t, tt.current[transition.Index], transition.Vendor)
				assert.Equal(t, tt.previous[transition.Index].Status, transition.OldStatus)
			}
			assert.Equal(t, tt.want, indices)
		})
	}
}

func TestDiffIsPure(t *testing.T) {
	t.Parallel()

	previous := []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", domain.StatusNotPaid)}
	current := []domain.VendorRecord{vendor("1", "Acme", "a@acme.in", domain.StatusPaid)}

	first := Diff(previous, current)
	second := Diff(previous, current)
	assert.Equal(t, first, second)
	assert.Empty(t, Diff(current, current))
	assert.Equal(t, domain.StatusNotPaid, previous[0].Status)
}

func TestDiffIsPositional(t *testing.T) {
	t.Parallel()

	previous := []domain.VendorRecord{
		vendor("1", "Acme", "a@acme.in", domain.StatusPaid),
		vendor("2", "Beta", "b@beta.in", domain.StatusNotPaid),
	}
	// Acme removed from the top: Beta now sits at index 0.
	current := []domain.VendorRecord{vendor("2", "Beta", "b@beta.in", domain.StatusNotPaid)}

	got := Diff(previous, current)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Vendor.VendorName)
	assert.Equal(t, domain.StatusPaid, got[0].OldStatus)
}

func TestQualifying(t *testing.T) {
	t.Parallel()

	transitions := []domain.Transition{
		{Index: 0, OldStatus: domain.StatusNotPaid, NewStatus: domain.StatusPaid},
		{Index: 1, OldStatus: domain.StatusPaid, NewStatus: domain.StatusNotPaid},
		{Index: 2, OldStatus: domain.StatusNotPaid, NewStatus: domain.StatusPaid},
	}

	got := Qualifying(transitions)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
}
