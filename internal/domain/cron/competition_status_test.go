package cron

import (
	"testing"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_CompetitionStatusCronJob_Do(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	dueDraft, err := testutil.SampleCompetition(ctx, &entity.Competition{
		Status:    entity.CompetitionDraft,
		StartDate: time.Now().Add(-2 * time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// Both dates of this draft already passed, starting it makes no sense.
	staleDraft, err := testutil.SampleCompetition(ctx, &entity.Competition{
		Status:    entity.CompetitionDraft,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	dueToEnd, err := testutil.SampleCompetition(ctx, &entity.Competition{
		Status:    entity.CompetitionStarted,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	job := NewCompetitionStatusCronJob(competitionRepo, time.Minute)
	job.Do(ctx)

	expected := map[string]entity.CompetitionStatus{
		dueDraft.ID:              entity.CompetitionStarted,
		staleDraft.ID:            entity.CompetitionDraft,
		dueToEnd.ID:              entity.CompetitionEnded,
		testutil.Competition1.ID: entity.CompetitionStarted,
		testutil.Competition2.ID: entity.CompetitionDraft,
	}

	for id, status := range expected {
		competition, err := competitionRepo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, status, competition.Status, "competition %s", id)
	}
}

func Test_CompetitionStatusCronJob_schedule(t *testing.T) {
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	job := NewCompetitionStatusCronJob(competitionRepo, 0)
	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(time.Minute), job.Next(), 5*time.Second)
}
