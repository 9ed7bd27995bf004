package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
)

// SampleCompetition creates a started competition with many fields
// randomized. The sample can be overwritten by non-zero fields of init.
//
// This function returns the created competition.
func SampleCompetition(ctx context.Context, init *entity.Competition) (*entity.Competition, error) {
	competitionRepo := repository.NewCompetitionRepository(&MockSearchCaller{}, &MockRedisClient{})

	sample := &entity.Competition{
		Base:             entity.Base{ID: uuid.NewString()},
		CreatedBy:        User1.ID,
		Handle:           uuid.NewString(),
		Title:            uuid.NewString(),
		NumberOfEntries:  10,
		AvailableTickets: entity.Array[int]{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		SoldTickets:      entity.Array[int]{},
		TicketPrice:      1,
		MaxPerUser:       10,
		StartDate:        time.Now().Add(-time.Hour),
		EndDate:          time.Now().Add(24 * time.Hour),
		Status:           entity.CompetitionStarted,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := competitionRepo.Create(ctx, sample); err != nil {
		return nil, err
	}

	return sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
