// Package ticketpool owns the ticket-pool bookkeeping of a competition: an
// ordered available pool and an ordered sold pool stored on the competition
// row, with atomic prefix moves between them.
package ticketpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/xcontext"
)

// ErrInsufficientTickets is returned by Assign when the requested quantity
// exceeds the remaining capacity. Callers check it with errors.Is and decide
// themselves whether to retry with a smaller quantity.
var ErrInsufficientTickets = errors.New("insufficient tickets")

// IsActive reports whether the competition accepts allocations at the given
// time. The end date is exclusive.
func IsActive(competition *entity.Competition, now time.Time) bool {
	return competition.Status == entity.CompetitionStarted && competition.EndDate.After(now)
}

// GetTickets returns the first quantity numbers of the available pool without
// mutating it. If the pool holds fewer than quantity numbers, the result is
// an empty slice, never a partial one.
func GetTickets(competition *entity.Competition, quantity int) []int {
	if quantity < 0 || quantity > len(competition.AvailableTickets) {
		return []int{}
	}

	return competition.AvailableTickets[:quantity]
}

// Allocator moves ticket numbers between the available and sold pools of
// competitions. All pool mutations of one competition go through the same
// allocator instance.
type Allocator struct {
	competitionRepo repository.CompetitionRepository
	ticketRepo      repository.TicketRepository

	// locks serializes Assign per competition id. The read-check-mutate-write
	// sequence on the pools must never interleave for the same competition.
	locks *xsync.MapOf[string, *sync.Mutex]
}

func NewAllocator(
	competitionRepo repository.CompetitionRepository,
	ticketRepo repository.TicketRepository,
) *Allocator {
	return &Allocator{
		competitionRepo: competitionRepo,
		ticketRepo:      ticketRepo,
		locks:           xsync.NewMapOf[*sync.Mutex](),
	}
}

// HasEnoughTickets reports whether quantity tickets can still be sold. The
// remaining capacity is the number of entries minus the persisted count of
// sold ticket records, not the length of the sold list kept on the
// competition row. A negative quantity is never enough.
func (a *Allocator) HasEnoughTickets(
	ctx context.Context, competition *entity.Competition, quantity int,
) (bool, error) {
	if quantity < 0 {
		return false, nil
	}

	soldCount, err := a.ticketRepo.CountSoldByCompetitionID(ctx, competition.ID)
	if err != nil {
		return false, err
	}

	return int64(competition.NumberOfEntries)-soldCount >= int64(quantity), nil
}

// Assign moves the first quantity numbers of the available pool to the end of
// the sold pool and returns them. The competition is reloaded straight from
// the database under a per-competition lock, so a stale cached copy of the
// pools can never leak into the allocation.
//
// If fn is not nil it runs inside the same transaction after the pools are
// updated. When fn fails the whole allocation rolls back and no number is
// sold, which lets callers record the sale atomically with the pool move.
func (a *Allocator) Assign(
	ctx context.Context,
	competitionID string,
	quantity int,
	fn func(ctx context.Context, numbers []int) error,
) ([]int, error) {
	lock, _ := a.locks.LoadOrStore(competitionID, &sync.Mutex{})
	lock.Lock()
	defer lock.Unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	competition, err := a.competitionRepo.GetByIDUncached(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	enough, err := a.HasEnoughTickets(ctx, competition, quantity)
	if err != nil {
		return nil, err
	}

	// The sold-record count and the available pool can drift apart, both
	// must agree before any number is handed out.
	assigned := GetTickets(competition, quantity)
	if !enough || (quantity > 0 && len(assigned) == 0) {
		xcontext.Logger(ctx).Warnf("Not enough tickets of competition %s: requested=%d, available=%d",
			competitionID, quantity, len(competition.AvailableTickets))
		return nil, ErrInsufficientTickets
	}

	available := competition.AvailableTickets[len(assigned):]
	sold := append(competition.SoldTickets, assigned...)
	if err := a.competitionRepo.UpdateTicketPools(ctx, competitionID, available, sold); err != nil {
		return nil, err
	}

	if fn != nil {
		if err := fn(ctx, assigned); err != nil {
			return nil, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	// Invalidate only after the commit. Dropping the keys earlier opens a
	// window where a concurrent read re-caches the pre-commit pools.
	a.competitionRepo.InvalidateCache(ctx, competitionID)

	return assigned, nil
}
