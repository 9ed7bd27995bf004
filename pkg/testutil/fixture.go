package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
)

var (
	User1 = &entity.User{
		Base: entity.Base{ID: "user1"},
		Name: "user1",
		Role: entity.RoleAdmin,
	}

	User2 = &entity.User{
		Base: entity.Base{ID: "user2"},
		Name: "user2",
		Role: entity.RoleUser,
	}

	User3 = &entity.User{
		Base: entity.Base{ID: "user3"},
		Name: "user3",
		Role: entity.RoleUser,
	}

	Category1 = &entity.Category{
		Base:      entity.Base{ID: "category1"},
		Name:      "Cars",
		CreatedBy: User1.ID,
	}

	Competition1 = &entity.Competition{
		Base:             entity.Base{ID: "competition1"},
		CreatedBy:        User1.ID,
		CategoryID:       sql.NullString{Valid: true, String: Category1.ID},
		Handle:           "dream_car_giveaway",
		Title:            "Dream Car Giveaway",
		Description:      []byte("Win the car of your dreams."),
		NumberOfEntries:  10,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		SoldTickets:      entity.Array[int]{},
		TicketPrice:      2.5,
		MaxPerUser:       5,
		StartDate:        time.Now().Add(-time.Hour),
		EndDate:          time.Now().Add(24 * time.Hour),
		Status:           entity.CompetitionStarted,
	}

	Competition2 = &entity.Competition{
		Base:             entity.Base{ID: "competition2"},
		CreatedBy:        User1.ID,
		CategoryID:       sql.NullString{Valid: true, String: Category1.ID},
		Handle:           "holiday_raffle",
		Title:            "Holiday Raffle",
		Description:      []byte("A short break for two."),
		NumberOfEntries:  5,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5},
		SoldTickets:      entity.Array[int]{},
		TicketPrice:      1,
		MaxPerUser:       5,
		StartDate:        time.Now().Add(time.Hour),
		EndDate:          time.Now().Add(48 * time.Hour),
		Status:           entity.CompetitionDraft,
	}

	Question1 = &entity.Question{
		Base:          entity.Base{ID: "question1"},
		CompetitionID: Competition1.ID,
		Text:          "What is the capital of England?",
		Options:       entity.Array[string]{"London", "Paris", "Berlin"},
		Answer:        "London",
	}

	Prize1 = &entity.Prize{
		Base:          entity.Base{ID: "prize1"},
		CompetitionID: Competition1.ID,
		Title:         "First Prize",
		Position:      1,
		Rewards: entity.Array[entity.Reward]{
			{Type: entity.CashReward, Data: entity.Map{"amount": 1000.0, "currency": "GBP"}},
		},
		AvailableRewards: 1,
	}

	Prize2 = &entity.Prize{
		Base:          entity.Base{ID: "prize2"},
		CompetitionID: Competition1.ID,
		Title:         "Runner Up",
		Position:      2,
		Rewards: entity.Array[entity.Reward]{
			{Type: entity.CreditReward, Data: entity.Map{"amount": 50.0}},
		},
		AvailableRewards: 2,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertCategories(ctx)
	InsertCompetitions(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	if err := userRepo.Create(ctx, User1); err != nil {
		panic(err)
	}

	if err := userRepo.Create(ctx, User2); err != nil {
		panic(err)
	}

	if err := userRepo.Create(ctx, User3); err != nil {
		panic(err)
	}
}

func InsertCategories(ctx context.Context) {
	categoryRepo := repository.NewCategoryRepository()

	if err := categoryRepo.Create(ctx, Category1); err != nil {
		panic(err)
	}
}

func InsertCompetitions(ctx context.Context) {
	competitionRepo := repository.NewCompetitionRepository(&MockSearchCaller{}, &MockRedisClient{})
	questionRepo := repository.NewQuestionRepository()
	prizeRepo := repository.NewPrizeRepository()

	if err := competitionRepo.Create(ctx, Competition1); err != nil {
		panic(err)
	}

	if err := competitionRepo.Create(ctx, Competition2); err != nil {
		panic(err)
	}

	if err := questionRepo.Create(ctx, Question1); err != nil {
		panic(err)
	}

	if err := prizeRepo.Create(ctx, Prize1); err != nil {
		panic(err)
	}

	if err := prizeRepo.Create(ctx, Prize2); err != nil {
		panic(err)
	}
}
