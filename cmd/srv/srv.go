package main

import (
	"context"
	"net/http"

	"github.com/rafflehub/backend/internal/client"
	"github.com/rafflehub/backend/internal/domain"
	"github.com/rafflehub/backend/internal/domain/reward"
	"github.com/rafflehub/backend/internal/domain/statistic"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/migration"
	"github.com/rafflehub/backend/pkg/cqlutil"
	"github.com/rafflehub/backend/pkg/kafka"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/storage"
	"github.com/rafflehub/backend/pkg/ws"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"
	"github.com/scylladb/gocqlx/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	userRepo             repository.UserRepository
	categoryRepo         repository.CategoryRepository
	competitionRepo      repository.CompetitionRepository
	competitionImageRepo repository.CompetitionImageRepository
	questionRepo         repository.QuestionRepository
	prizeRepo            repository.PrizeRepository
	orderRepo            repository.OrderRepository
	ticketRepo           repository.TicketRepository
	winnerRepo           repository.WinnerRepository
	saleActivityRepo     repository.SaleActivityRepository

	userDomain        domain.UserDomain
	categoryDomain    domain.CategoryDomain
	competitionDomain domain.CompetitionDomain
	orderDomain       domain.OrderDomain
	winnerDomain      domain.WinnerDomain
	feedDomain        domain.FeedDomain
	fileDomain        domain.FileDomain
	cartDomain        domain.CartDomain
	statisticDomain   domain.StatisticDomain

	leaderboard statistic.Leaderboard

	redisClient     xredis.Client
	searchCaller    client.SearchCaller
	publisher       pubsub.Publisher
	storage         storage.Storage
	scyllaDBSession gocqlx.Session
	hub             *ws.Hub

	router *router.Router
	server *http.Server
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(
		mysql.Open(xcontext.Configs(s.ctx).Database.ConnectionString()),
		&gorm.Config{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadSearchCaller() {
	rpcClient, err := rpc.DialContext(s.ctx, xcontext.Configs(s.ctx).SearchServer.Endpoint)
	if err != nil {
		panic(err)
	}

	s.searchCaller = client.NewSearchCaller(rpcClient)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	s.publisher = kafka.NewPublisher(uuid.NewString(), []string{cfg.Kafka.Addr})
}

func (s *srv) loadStorage() {
	cfg := xcontext.Configs(s.ctx)
	s.storage = storage.NewS3Storage(&cfg.Storage)
}

func (s *srv) loadScyllaDB() {
	cfg := xcontext.Configs(s.ctx)
	cluster := cqlutil.CreateCluster(cfg.ScyllaDB.KeySpace, cfg.ScyllaDB.Addr)

	session, err := gocqlx.WrapSession(cluster.CreateSession())
	if err != nil {
		panic(err)
	}

	s.scyllaDBSession = session
	xcontext.Logger(s.ctx).Infof("Connect scylla db successful in addr: %s", cfg.ScyllaDB.Addr)

	if err := migration.MigrateScyllaDB(s.ctx, s.scyllaDBSession); err != nil {
		panic(err)
	}

	s.saleActivityRepo = repository.NewSaleActivityRepository(s.scyllaDBSession)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.categoryRepo = repository.NewCategoryRepository()
	s.competitionRepo = repository.NewCompetitionRepository(s.searchCaller, s.redisClient)
	s.competitionImageRepo = repository.NewCompetitionImageRepository()
	s.questionRepo = repository.NewQuestionRepository()
	s.prizeRepo = repository.NewPrizeRepository()
	s.orderRepo = repository.NewOrderRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.winnerRepo = repository.NewWinnerRepository()
}

func (s *srv) loadDomains() {
	s.hub = ws.NewHub()
	go s.hub.Run()

	s.leaderboard = statistic.New(s.orderRepo, s.redisClient)

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.categoryDomain = domain.NewCategoryDomain(s.categoryRepo, s.userRepo)
	s.competitionDomain = domain.NewCompetitionDomain(
		s.competitionRepo,
		s.categoryRepo,
		s.questionRepo,
		s.prizeRepo,
		s.competitionImageRepo,
		s.ticketRepo,
		s.orderRepo,
		s.saleActivityRepo,
		s.userRepo,
		reward.NewFactory(),
		s.redisClient,
	)
	s.orderDomain = domain.NewOrderDomain(
		s.orderRepo,
		s.ticketRepo,
		s.competitionRepo,
		s.questionRepo,
		s.userRepo,
		s.leaderboard,
		s.publisher,
		s.redisClient,
		s.hub,
	)
	s.winnerDomain = domain.NewWinnerDomain(
		s.winnerRepo,
		s.prizeRepo,
		s.ticketRepo,
		s.competitionRepo,
		s.userRepo,
		s.publisher,
		s.hub,
	)
	s.feedDomain = domain.NewFeedDomain(
		s.competitionRepo,
		s.saleActivityRepo,
		s.userRepo,
		s.redisClient,
		s.hub,
	)
	s.fileDomain = domain.NewFileDomain(
		s.competitionRepo,
		s.competitionImageRepo,
		s.userRepo,
		s.storage,
	)
	s.cartDomain = domain.NewCartDomain(s.competitionRepo, s.orderDomain)
	s.statisticDomain = domain.NewStatisticDomain(s.competitionRepo, s.userRepo, s.leaderboard)
}
