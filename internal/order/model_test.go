package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("IN_DELIVERY")
	require.NoError(t, err)
	require.Equal(t, StatusInDelivery, st)

	_, err = ParseStatus("SHIPPED")
	require.Error(t, err)
}

func TestCanTransitionForwardOnly(t *testing.T) {
	require.True(t, CanTransition(StatusPreparation, StatusTaken))
	require.True(t, CanTransition(StatusPreparation, StatusDelivered))
	require.True(t, CanTransition(StatusTaken, StatusInDelivery))

	require.False(t, CanTransition(StatusTaken, StatusTaken))
	require.False(t, CanTransition(StatusDelivered, StatusPreparation))
	require.False(t, CanTransition(StatusInDelivery, StatusTaken))
}

func TestCanTransitionRejectsUnknownStatus(t *testing.T) {
	require.False(t, CanTransition(Status("SHIPPED"), StatusDelivered))
	require.False(t, CanTransition(StatusPreparation, Status("SHIPPED")))
}
