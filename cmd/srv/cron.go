package main

import (
	"github.com/rafflehub/backend/internal/domain/cron"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadSearchCaller()
	s.loadRepos()

	competitionCfg := xcontext.Configs(s.ctx).Competition
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(
		cron.NewCompetitionStatusCronJob(s.competitionRepo, competitionCfg.StatusCheckFrequency))
	cronJobManager.Register(cron.NewTrendingScoreCronJob(
		s.competitionRepo, s.ticketRepo, s.redisClient, competitionCfg.TrendingScoreFrequency))

	cronJobManager.Start(s.ctx)
	return nil
}
