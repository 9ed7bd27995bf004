package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rafflehub/backend/internal/client"
	"github.com/rafflehub/backend/internal/domain/search"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type GetListCompetitionFilter struct {
	Q          string
	CategoryID string
	Status     entity.CompetitionStatus
	ByTrending bool
	Offset     int
	Limit      int
}

type CompetitionRepository interface {
	Create(ctx context.Context, e *entity.Competition) error
	GetList(ctx context.Context, filter GetListCompetitionFilter) ([]entity.Competition, error)
	GetByID(ctx context.Context, id string) (*entity.Competition, error)
	GetByIDUncached(ctx context.Context, id string) (*entity.Competition, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Competition, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Competition, error)
	UpdateByID(ctx context.Context, id string, e entity.Competition) error
	UpdateTicketPools(ctx context.Context, id string, available, sold entity.Array[int]) error
	UpdateStatus(ctx context.Context, id string, status entity.CompetitionStatus) error
	UpdateDrawSeedDigest(ctx context.Context, id string, digest string) error
	UpdateTrendingScore(ctx context.Context, id string, score int) error
	GetReadyToStart(ctx context.Context, now time.Time) ([]entity.Competition, error)
	GetReadyToEnd(ctx context.Context, now time.Time) ([]entity.Competition, error)
	DeleteByID(ctx context.Context, id string) error
	InvalidateCache(ctx context.Context, ids ...string)
}

type competitionRepository struct {
	searchCaller client.SearchCaller
	redisClient  xredis.Client
}

func NewCompetitionRepository(searchCaller client.SearchCaller, redisClient xredis.Client) *competitionRepository {
	return &competitionRepository{searchCaller: searchCaller, redisClient: redisClient}
}

func (r *competitionRepository) cacheKeyByID(id string) string {
	return fmt.Sprintf("cache:competition:%s", id)
}

func (r *competitionRepository) cacheKeyByHandle(handle string) string {
	return fmt.Sprintf("cache:competition:handle:%s", handle)
}

func (r *competitionRepository) cache(ctx context.Context, competitions ...entity.Competition) {
	redisKV := map[string]any{}
	for _, record := range competitions {
		redisKV[r.cacheKeyByID(record.ID)] = record
		redisKV[r.cacheKeyByHandle(record.Handle)] = record
	}

	if err := r.redisClient.MSet(ctx, redisKV); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot multiple set for competition redis: %v", err)
	}
}

func (r *competitionRepository) fromCache(ctx context.Context, keys ...string) []entity.Competition {
	values, err := r.redisClient.MGet(ctx, keys...)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot multiple get competition from redis: %v", err)
		return nil
	}

	var records []entity.Competition
	for i := range keys {
		if values[i] == nil {
			continue
		}

		s, ok := values[i].(string)
		if !ok {
			xcontext.Logger(ctx).Warnf("Invalid type of competition %T", values[i])
			continue
		}

		var result entity.Competition
		if err := json.Unmarshal([]byte(s), &result); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot unmarshal competition object: %v", err)
			continue
		}

		records = append(records, result)
	}

	return records
}

func (r *competitionRepository) fromCacheByID(ctx context.Context, ids ...string) []entity.Competition {
	keys := []string{}
	for _, id := range ids {
		keys = append(keys, r.cacheKeyByID(id))
	}

	return r.fromCache(ctx, keys...)
}

func (r *competitionRepository) fromCacheByHandle(ctx context.Context, handles ...string) []entity.Competition {
	keys := []string{}
	for _, handle := range handles {
		keys = append(keys, r.cacheKeyByHandle(handle))
	}

	return r.fromCache(ctx, keys...)
}

// InvalidateCache drops the cached entries of the given competitions. Callers
// mutating pools inside a transaction must invoke it after the commit, so a
// concurrent read cannot re-cache the pre-commit row behind the deletion.
func (r *competitionRepository) InvalidateCache(ctx context.Context, ids ...string) {
	records := r.fromCacheByID(ctx, ids...)

	keys := []string{}
	for _, record := range records {
		keys = append(keys, r.cacheKeyByID(record.ID))
		keys = append(keys, r.cacheKeyByHandle(record.Handle))
	}

	if len(keys) > 0 {
		if err := r.redisClient.Del(ctx, keys...); err != nil && err != redis.Nil {
			xcontext.Logger(ctx).Warnf("Cannot invalidate competition redis key: %v", err)
		}
	}
}

func (r *competitionRepository) index(ctx context.Context, e entity.Competition) error {
	return r.searchCaller.IndexCompetition(ctx, e.ID, search.CompetitionData{
		Handle:      e.Handle,
		Title:       e.Title,
		Description: search.StripHTML(string(e.Description)),
	})
}

func (r *competitionRepository) Create(ctx context.Context, e *entity.Competition) error {
	if err := xcontext.DB(ctx).Create(e).Error; err != nil {
		return err
	}

	// Drafts stay out of the search index until they start.
	if e.Status == entity.CompetitionStarted {
		if err := r.index(ctx, *e); err != nil {
			return err
		}
	}

	return nil
}

func (r *competitionRepository) GetList(ctx context.Context, filter GetListCompetitionFilter) ([]entity.Competition, error) {
	if filter.Q == "" {
		var result []entity.Competition
		tx := xcontext.DB(ctx)

		if filter.ByTrending {
			tx = tx.Order("trending_score DESC")
		}

		if filter.CategoryID != "" {
			tx = tx.Where("category_id=?", filter.CategoryID)
		}

		if filter.Status != "" {
			tx = tx.Where("status=?", filter.Status)
		}

		// A zero limit means no pagination.
		if filter.Limit > 0 {
			tx = tx.Offset(filter.Offset).Limit(filter.Limit)
		}

		if err := tx.Order("created_at DESC").Find(&result).Error; err != nil {
			return nil, err
		}

		return result, nil
	}

	ids, err := r.searchCaller.SearchCompetition(ctx, filter.Q)
	if err != nil {
		return nil, err
	}

	competitions, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	competitionSet := map[string]entity.Competition{}
	for _, c := range competitions {
		competitionSet[c.ID] = c
	}

	// Keep the ranking order returned by the search service.
	orderedCompetitions := []entity.Competition{}
	for _, id := range ids {
		if c, ok := competitionSet[id]; ok {
			orderedCompetitions = append(orderedCompetitions, c)
		}
	}

	return orderedCompetitions, nil
}

func (r *competitionRepository) GetByID(ctx context.Context, id string) (*entity.Competition, error) {
	if c := r.fromCacheByID(ctx, id); len(c) > 0 {
		return &c[0], nil
	}

	var record entity.Competition
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, record)
	return &record, nil
}

// GetByIDUncached always reads the database row and never populates the
// cache. The ticket allocator uses it inside its transaction, where a cached
// copy of the pools could be stale.
func (r *competitionRepository) GetByIDUncached(ctx context.Context, id string) (*entity.Competition, error) {
	var record entity.Competition
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *competitionRepository) GetByHandle(ctx context.Context, handle string) (*entity.Competition, error) {
	if c := r.fromCacheByHandle(ctx, handle); len(c) > 0 {
		return &c[0], nil
	}

	var record entity.Competition
	if err := xcontext.DB(ctx).Take(&record, "handle=?", handle).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, record)
	return &record, nil
}

func (r *competitionRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Competition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records := r.fromCacheByID(ctx, ids...)
	notCachedIDs := []string{}
	for _, id := range ids {
		isCached := false
		for _, cached := range records {
			if id == cached.ID {
				isCached = true
				break
			}
		}

		if !isCached {
			notCachedIDs = append(notCachedIDs, id)
		}
	}

	if len(notCachedIDs) != 0 {
		var dbRecords []entity.Competition
		if err := xcontext.DB(ctx).Find(&dbRecords, "id IN (?)", notCachedIDs).Error; err != nil {
			return nil, err
		}

		records = append(records, dbRecords...)
		r.cache(ctx, dbRecords...)
	}

	return records, nil
}

func (r *competitionRepository) UpdateByID(ctx context.Context, id string, e entity.Competition) error {
	r.InvalidateCache(ctx, id)

	tx := xcontext.DB(ctx).
		Model(&entity.Competition{}).
		Where("id=?", id).
		Omit("created_by", "created_at", "id",
			"number_of_entries", "available_tickets", "sold_tickets").
		Updates(e)
	if err := tx.Error; err != nil {
		return err
	}

	if e.Title != "" || e.Description != nil || e.Handle != "" {
		competition, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if competition.Status == entity.CompetitionStarted {
			if err := r.index(ctx, *competition); err != nil {
				return err
			}
		}
	}

	return nil
}

// UpdateTicketPools persists both pools of a competition together. It runs
// inside the allocation transaction and deliberately does not touch the cache;
// the caller invalidates after the transaction commits.
func (r *competitionRepository) UpdateTicketPools(
	ctx context.Context, id string, available, sold entity.Array[int],
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Competition{}).
		Where("id=?", id).
		Updates(map[string]any{
			"available_tickets": available,
			"sold_tickets":      sold,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *competitionRepository) UpdateStatus(ctx context.Context, id string, status entity.CompetitionStatus) error {
	r.InvalidateCache(ctx, id)

	tx := xcontext.DB(ctx).
		Model(&entity.Competition{}).
		Where("id=?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	switch status {
	case entity.CompetitionStarted:
		competition, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := r.index(ctx, *competition); err != nil {
			return err
		}

	case entity.CompetitionCancelled:
		if err := r.searchCaller.DeleteCompetition(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

func (r *competitionRepository) UpdateDrawSeedDigest(ctx context.Context, id string, digest string) error {
	r.InvalidateCache(ctx, id)

	tx := xcontext.DB(ctx).
		Model(&entity.Competition{}).
		Where("id=? AND draw_seed_digest=?", id, "").
		Update("draw_seed_digest", digest)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *competitionRepository) UpdateTrendingScore(ctx context.Context, id string, score int) error {
	r.InvalidateCache(ctx, id)

	return xcontext.DB(ctx).
		Model(&entity.Competition{}).
		Where("id=?", id).
		Update("trending_score", score).Error
}

func (r *competitionRepository) GetReadyToStart(ctx context.Context, now time.Time) ([]entity.Competition, error) {
	var result []entity.Competition
	err := xcontext.DB(ctx).
		Where("status=? AND start_date<=?", entity.CompetitionDraft, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *competitionRepository) GetReadyToEnd(ctx context.Context, now time.Time) ([]entity.Competition, error) {
	var result []entity.Competition
	err := xcontext.DB(ctx).
		Where("status=? AND end_date<=?", entity.CompetitionStarted, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *competitionRepository) DeleteByID(ctx context.Context, id string) error {
	r.InvalidateCache(ctx, id)

	tx := xcontext.DB(ctx).Delete(&entity.Competition{}, "id=?", id)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("row affected is empty")
	}

	return r.searchCaller.DeleteCompetition(ctx, id)
}
