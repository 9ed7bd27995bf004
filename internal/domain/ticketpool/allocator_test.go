package ticketpool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func Test_GetTickets(t *testing.T) {
	competition := &entity.Competition{AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5}}

	require.Equal(t, []int{1, 2, 3}, GetTickets(competition, 3))
	require.Equal(t, []int{1, 2, 3, 4, 5}, GetTickets(competition, 5))

	// Two calls with no mutation in between give identical results.
	require.Equal(t, []int{1, 2, 3}, GetTickets(competition, 3))
	require.Equal(t, entity.Array[int]{1, 2, 3, 4, 5}, competition.AvailableTickets)

	// Under supply gives an empty result, never a partial one.
	require.Empty(t, GetTickets(competition, 6))
	require.Empty(t, GetTickets(competition, -1))
}

func Test_IsActive(t *testing.T) {
	now := time.Now()
	competition := &entity.Competition{
		Status:  entity.CompetitionStarted,
		EndDate: now.Add(time.Hour),
	}

	require.True(t, IsActive(competition, now))

	// The end date itself is no longer active.
	require.False(t, IsActive(competition, now.Add(time.Hour)))
	require.False(t, IsActive(competition, now.Add(2*time.Hour)))

	competition.Status = entity.CompetitionDraft
	require.False(t, IsActive(competition, now))

	competition.Status = entity.CompetitionEnded
	require.False(t, IsActive(competition, now))
}

func Test_allocator_Assign(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	competitionRepo := repository.NewCompetitionRepository(&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})
	ticketRepo := repository.NewTicketRepository()
	allocator := NewAllocator(competitionRepo, ticketRepo)

	competition, err := testutil.SampleCompetition(ctx, &entity.Competition{
		NumberOfEntries:  10,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	assigned, err := allocator.Assign(ctx, competition.ID, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, assigned)

	var result entity.Competition
	tx := xcontext.DB(ctx).Take(&result, "id=?", competition.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.Array[int]{4, 5}, result.AvailableTickets)
	require.Equal(t, entity.Array[int]{1, 2, 3}, result.SoldTickets)
}

func Test_allocator_Assign_withSoldRecords(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	competitionRepo := repository.NewCompetitionRepository(&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})
	ticketRepo := repository.NewTicketRepository()
	allocator := NewAllocator(competitionRepo, ticketRepo)

	competition, err := testutil.SampleCompetition(ctx, &entity.Competition{
		NumberOfEntries:  10,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	// Eight of ten entries are already recorded as sold tickets, only two
	// remain regardless of the available pool length.
	tickets := []*entity.Ticket{}
	for i := 0; i < 8; i++ {
		tickets = append(tickets, &entity.Ticket{
			SnowFlakeBase: entity.SnowFlakeBase{ID: int64(i + 1)},
			CompetitionID: competition.ID,
			OrderID:       "order1",
			UserID:        testutil.User2.ID,
			Number:        i + 1,
			Status:        entity.TicketSold,
		})
	}
	require.NoError(t, ticketRepo.Create(ctx, tickets...))

	enough, err := allocator.HasEnoughTickets(ctx, competition, 3)
	require.NoError(t, err)
	require.False(t, enough)

	enough, err = allocator.HasEnoughTickets(ctx, competition, 2)
	require.NoError(t, err)
	require.True(t, enough)

	enough, err = allocator.HasEnoughTickets(ctx, competition, -1)
	require.NoError(t, err)
	require.False(t, enough)

	_, err = allocator.Assign(ctx, competition.ID, 3, nil)
	require.ErrorIs(t, err, ErrInsufficientTickets)

	// A failed assignment leaves both pools untouched.
	var result entity.Competition
	tx := xcontext.DB(ctx).Take(&result, "id=?", competition.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.Array[int]{1, 2, 3, 4, 5}, result.AvailableTickets)
	require.Empty(t, result.SoldTickets)
}

func Test_allocator_Assign_concurrently(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	competitionRepo := repository.NewCompetitionRepository(&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})
	ticketRepo := repository.NewTicketRepository()
	allocator := NewAllocator(competitionRepo, ticketRepo)

	competition, err := testutil.SampleCompetition(ctx, &entity.Competition{
		NumberOfEntries:  1,
		AvailableTickets: entity.Array[int]{7},
	})
	require.NoError(t, err)

	type result struct {
		assigned []int
		err      error
	}

	var wg sync.WaitGroup
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assigned, err := allocator.Assign(ctx, competition.ID, 1, nil)
			results <- result{assigned: assigned, err: err}
		}()
	}

	wg.Wait()
	close(results)

	succeeded := 0
	failed := 0
	for r := range results {
		if r.err == nil {
			succeeded++
			require.Equal(t, []int{7}, r.assigned)
		} else {
			failed++
			require.True(t, errors.Is(r.err, ErrInsufficientTickets))
		}
	}

	// Exactly one of the two calls gets ticket 7.
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, failed)
}

func Test_allocator_Assign_ignoresStaleCache(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	competition, err := testutil.SampleCompetition(ctx, &entity.Competition{
		NumberOfEntries:  10,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	// The redis mock always serves the competition as it looked before any
	// allocation, as if a concurrent reader re-cached the row mid-update.
	stale, err := json.Marshal(competition)
	require.NoError(t, err)

	deletedKeys := []string{}
	redisClient := &testutil.MockRedisClient{
		MGetFunc: func(ctx context.Context, keys ...string) ([]any, error) {
			values := make([]any, len(keys))
			for i, key := range keys {
				if key == fmt.Sprintf("cache:competition:%s", competition.ID) {
					values[i] = string(stale)
				}
			}
			return values, nil
		},
		DelFunc: func(ctx context.Context, keys ...string) error {
			deletedKeys = append(deletedKeys, keys...)
			return nil
		},
	}

	competitionRepo := repository.NewCompetitionRepository(&testutil.MockSearchCaller{}, redisClient)
	allocator := NewAllocator(competitionRepo, repository.NewTicketRepository())

	first, err := allocator.Assign(ctx, competition.ID, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, first)

	// The second call must read the committed pools, not the cached copy. A
	// cache read here would hand out 1, 2, 3 twice.
	second, err := allocator.Assign(ctx, competition.ID, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5}, second)

	_, err = allocator.Assign(ctx, competition.ID, 1, nil)
	require.ErrorIs(t, err, ErrInsufficientTickets)

	// Each successful allocation drops the cached entries once committed.
	require.Contains(t, deletedKeys, fmt.Sprintf("cache:competition:%s", competition.ID))
	require.Contains(t, deletedKeys, fmt.Sprintf("cache:competition:handle:%s", competition.Handle))
}

func Test_allocator_Assign_callbackInTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	competitionRepo := repository.NewCompetitionRepository(&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})
	ticketRepo := repository.NewTicketRepository()
	allocator := NewAllocator(competitionRepo, ticketRepo)

	competition, err := testutil.SampleCompetition(ctx, &entity.Competition{
		NumberOfEntries:  10,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	// A failing callback rolls the pool move back with it.
	_, err = allocator.Assign(ctx, competition.ID, 2,
		func(ctx context.Context, numbers []int) error {
			return errors.New("record sale failed")
		})
	require.Error(t, err)

	var result entity.Competition
	tx := xcontext.DB(ctx).Take(&result, "id=?", competition.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.Array[int]{1, 2, 3, 4, 5}, result.AvailableTickets)
	require.Empty(t, result.SoldTickets)

	// A successful callback commits its writes together with the pools.
	assigned, err := allocator.Assign(ctx, competition.ID, 2,
		func(ctx context.Context, numbers []int) error {
			tickets := []*entity.Ticket{}
			for i, number := range numbers {
				tickets = append(tickets, &entity.Ticket{
					SnowFlakeBase: entity.SnowFlakeBase{ID: int64(i + 1)},
					CompetitionID: competition.ID,
					OrderID:       "order1",
					UserID:        testutil.User2.ID,
					Number:        number,
					Status:        entity.TicketSold,
				})
			}
			return ticketRepo.Create(ctx, tickets...)
		})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, assigned)

	sold, err := ticketRepo.CountSoldByCompetitionID(ctx, competition.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), sold)

	tx = xcontext.DB(ctx).Take(&result, "id=?", competition.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.Array[int]{3, 4, 5}, result.AvailableTickets)
	require.Equal(t, entity.Array[int]{1, 2}, result.SoldTickets)
}
