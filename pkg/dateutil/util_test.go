package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	// Wednesday, 2023-05-17.
	wednesday := time.Date(2023, 5, 17, 15, 30, 0, 0, time.UTC)
	monday := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, monday, CurrentWeek(wednesday))

	// Sunday belongs to the week starting the previous monday.
	sunday := time.Date(2023, 5, 21, 1, 0, 0, 0, time.UTC)
	require.Equal(t, monday, CurrentWeek(sunday))

	require.Equal(t, monday, CurrentWeek(monday))
}

func TestNextDay(t *testing.T) {
	now := time.Date(2023, 5, 17, 15, 30, 45, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 18, 0, 0, 0, 0, time.UTC), NextDay(now))
	require.Equal(t, time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC), BeginningOfDay(now))
}
