package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTallyStatuses(t *testing.T) {
	got := TallyStatuses([]Status{
		StatusPreparation,
		StatusPreparation,
		StatusTaken,
		StatusDelivered,
	})
	require.Equal(t, Stats{Preparation: 2, Taken: 1, Delivered: 1, Total: 4}, got)
}

func TestTallyStatusesEmpty(t *testing.T) {
	require.Equal(t, Stats{}, TallyStatuses(nil))
}

func TestTallyStatusesUnknownCountsTowardTotal(t *testing.T) {
	got := TallyStatuses([]Status{StatusTaken, Status("SHIPPED")})
	require.Equal(t, 1, got.Taken)
	require.Equal(t, 2, got.Total)
}
