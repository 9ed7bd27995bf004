package reflectutil

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetColumnNames(t *testing.T) {
	type test struct {
		ID            int64
		CompetitionID string
		TicketNumber  int
		Bucket        int64
		CreatedAt     string
	}
	got := GetColumnNames(&test{})

	want := []string{"id", "competition_id", "ticket_number", "bucket", "created_at"}

	sort.Strings(want)
	require.Equal(t, want, got)
}

func TestPartialEqual(t *testing.T) {
	type test struct {
		Name   string
		Status string
		Count  int
	}

	require.True(t, PartialEqual(
		&test{Name: "weekend raffle"},
		&test{Name: "weekend raffle", Status: "started", Count: 10},
	))

	require.False(t, PartialEqual(
		&test{Name: "weekend raffle", Count: 5},
		&test{Name: "weekend raffle", Status: "started", Count: 10},
	))
}
