package cron

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/xcontext"
)

// CompetitionStatusCronJob starts drafts whose start date arrived and ends
// started competitions whose end date passed.
type CompetitionStatusCronJob struct {
	competitionRepo repository.CompetitionRepository
	frequency       time.Duration
}

func NewCompetitionStatusCronJob(
	competitionRepo repository.CompetitionRepository,
	frequency time.Duration,
) *CompetitionStatusCronJob {
	if frequency <= 0 {
		frequency = time.Minute
	}

	return &CompetitionStatusCronJob{
		competitionRepo: competitionRepo,
		frequency:       frequency,
	}
}

func (job *CompetitionStatusCronJob) Do(ctx context.Context) {
	now := time.Now()

	readyToStart, err := job.competitionRepo.GetReadyToStart(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ready-to-start competitions: %v", err)
	}

	for _, c := range readyToStart {
		// A draft whose end date also passed stays a draft, starting it
		// would end it in the same tick.
		if !c.EndDate.After(now) {
			continue
		}

		if err := job.competitionRepo.UpdateStatus(ctx, c.ID, entity.CompetitionStarted); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot start competition %s: %v", c.ID, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Competition %s started", c.Handle)
	}

	readyToEnd, err := job.competitionRepo.GetReadyToEnd(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ready-to-end competitions: %v", err)
	}

	for _, c := range readyToEnd {
		if err := job.competitionRepo.UpdateStatus(ctx, c.ID, entity.CompetitionEnded); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot end competition %s: %v", c.ID, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Competition %s ended", c.Handle)
	}
}

func (job *CompetitionStatusCronJob) RunNow() bool {
	return true
}

func (job *CompetitionStatusCronJob) Next() time.Time {
	return time.Now().Add(job.frequency)
}
