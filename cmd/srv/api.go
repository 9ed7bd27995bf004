package main

import (
	"net/http"

	"github.com/rafflehub/backend/internal/middleware"
	"github.com/rafflehub/backend/pkg/prometheus"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadSearchCaller()
	s.loadPublisher()
	s.loadStorage()
	s.loadScyllaDB()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	defer s.scyllaDBSession.Close()
	defer s.searchCaller.Close()

	cfg := xcontext.Configs(s.ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", prometheus.NewHandler())
	mux.Handle("/", s.router.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.ApiServer.AllowedDomains,
		AllowCredentials: true,
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: corsHandler.Handler(mux),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Stopped api server")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// These APIs need authentication with the access token.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	authRouter.Before(authVerifier.Middleware())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)

		// Order API
		router.POST(authRouter, "/buyTickets", s.orderDomain.Buy)
		router.GET(authRouter, "/getOrder", s.orderDomain.Get)
		router.GET(authRouter, "/getMyOrders", s.orderDomain.GetMyList)

		// Statistic API
		router.GET(authRouter, "/getMyRank", s.statisticDomain.GetMyRank)

		// Winner API
		router.GET(authRouter, "/getMyWinnings", s.winnerDomain.GetMyWinnings)
		router.POST(authRouter, "/claimReward", s.winnerDomain.Claim)

		// Cart API
		router.POST(authRouter, "/checkoutCart", s.cartDomain.Checkout)
	}

	// These APIs additionally require an admin role.
	adminRouter := authRouter.Branch()
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		// Competition API
		router.POST(adminRouter, "/createCompetition", s.competitionDomain.Create)
		router.POST(adminRouter, "/updateCompetitionByID", s.competitionDomain.UpdateByID)
		router.POST(adminRouter, "/startCompetition", s.competitionDomain.Start)
		router.POST(adminRouter, "/cancelCompetition", s.competitionDomain.Cancel)
		router.POST(adminRouter, "/deleteCompetitionByID", s.competitionDomain.DeleteByID)

		// Category API
		router.POST(adminRouter, "/createCategory", s.categoryDomain.Create)
		router.POST(adminRouter, "/updateCategoryByID", s.categoryDomain.UpdateByID)
		router.POST(adminRouter, "/deleteCategoryByID", s.categoryDomain.DeleteByID)

		// Image API
		router.POST(adminRouter, "/uploadCompetitionImage", s.fileDomain.UploadCompetitionImage)

		// Draw API
		router.POST(adminRouter, "/drawWinners", s.winnerDomain.Draw)
	}

	// Public API.
	router.GET(s.router, "/getCompetition", s.competitionDomain.Get)
	router.GET(s.router, "/getListCompetition", s.competitionDomain.GetList)
	router.GET(s.router, "/getListCategory", s.categoryDomain.GetList)
	router.GET(s.router, "/getWinners", s.winnerDomain.GetList)
	router.GET(s.router, "/getRecentSales", s.feedDomain.GetRecentSales)
	router.GET(s.router, "/getLeaderBoard", s.statisticDomain.GetLeaderBoard)
	router.POST(s.router, "/addToCart", s.cartDomain.Add)
	router.GET(s.router, "/getCart", s.cartDomain.Get)
	router.POST(s.router, "/clearCart", s.cartDomain.Clear)
	router.Websocket(s.router, "/live", s.feedDomain.ServeFeed)
}
