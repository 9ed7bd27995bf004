package cron

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/dateutil"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// TrendingScoreCronJob recalculates the trending score of every competition
// from the tickets sold the previous day and reseeds the trending sorted set.
type TrendingScoreCronJob struct {
	competitionRepo repository.CompetitionRepository
	ticketRepo      repository.TicketRepository
	redisClient     xredis.Client
	frequency       time.Duration
}

func NewTrendingScoreCronJob(
	competitionRepo repository.CompetitionRepository,
	ticketRepo repository.TicketRepository,
	redisClient xredis.Client,
	frequency time.Duration,
) *TrendingScoreCronJob {
	return &TrendingScoreCronJob{
		competitionRepo: competitionRepo,
		ticketRepo:      ticketRepo,
		redisClient:     redisClient,
		frequency:       frequency,
	}
}

func (job *TrendingScoreCronJob) Do(ctx context.Context) {
	competitions, err := job.competitionRepo.GetList(ctx, repository.GetListCompetitionFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all competitions: %v", err)
		return
	}

	endTime := dateutil.BeginningOfDay(time.Now())
	startTime := endTime.AddDate(0, 0, -1)

	if err := job.redisClient.Del(ctx, common.RedisKeyTrendingCompetitions); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot reset trending sorted set: %v", err)
	}

	for _, c := range competitions {
		trendingScore, err := job.ticketRepo.Count(ctx, repository.StatisticTicketFilter{
			CompetitionID: c.ID,
			Start:         startTime,
			End:           endTime,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot calculate trending score of competition %s: %v", c.ID, err)
			continue
		}

		err = job.competitionRepo.UpdateTrendingScore(ctx, c.ID, int(trendingScore))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update trending score of competition %s: %v", c.ID, err)
			continue
		}

		err = job.redisClient.ZAdd(ctx, common.RedisKeyTrendingCompetitions,
			redis.Z{Member: c.ID, Score: float64(trendingScore)})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot reseed trending score of competition %s: %v", c.ID, err)
			continue
		}
	}
}

func (job *TrendingScoreCronJob) RunNow() bool {
	return true
}

func (job *TrendingScoreCronJob) Next() time.Time {
	if job.frequency > 0 {
		return time.Now().Add(job.frequency)
	}

	return dateutil.NextDay(time.Now())
}
