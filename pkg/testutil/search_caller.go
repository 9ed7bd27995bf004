package testutil

import (
	"context"
	"errors"

	"github.com/rafflehub/backend/internal/domain/search"
)

type MockSearchCaller struct {
	IndexCompetitionFunc  func(ctx context.Context, id string, data search.CompetitionData) error
	DeleteCompetitionFunc func(ctx context.Context, id string) error
	SearchCompetitionFunc func(ctx context.Context, query string) ([]string, error)
}

func (c *MockSearchCaller) IndexCompetition(ctx context.Context, id string, data search.CompetitionData) error {
	if c.IndexCompetitionFunc != nil {
		return c.IndexCompetitionFunc(ctx, id, data)
	}

	return nil
}

func (c *MockSearchCaller) DeleteCompetition(ctx context.Context, id string) error {
	if c.DeleteCompetitionFunc != nil {
		return c.DeleteCompetitionFunc(ctx, id)
	}

	return nil
}

func (c *MockSearchCaller) SearchCompetition(ctx context.Context, query string) ([]string, error) {
	if c.SearchCompetitionFunc != nil {
		return c.SearchCompetitionFunc(ctx, query)
	}

	return nil, errors.New("not implemented")
}

func (c *MockSearchCaller) Close() {}
