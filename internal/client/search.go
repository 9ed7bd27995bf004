package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/rafflehub/backend/internal/domain/search"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type SearchCaller interface {
	IndexCompetition(ctx context.Context, id string, data search.CompetitionData) error
	DeleteCompetition(ctx context.Context, id string) error
	SearchCompetition(ctx context.Context, query string) ([]string, error)
	Close()
}

type searchCaller struct {
	client *rpc.Client
}

func NewSearchCaller(client *rpc.Client) *searchCaller {
	return &searchCaller{client: client}
}

func (c *searchCaller) IndexCompetition(ctx context.Context, id string, data search.CompetitionData) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "index"), search.CompetitionDoc, id, data)
}

func (c *searchCaller) DeleteCompetition(ctx context.Context, id string) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "delete"), search.CompetitionDoc, id)
}

func (c *searchCaller) SearchCompetition(ctx context.Context, query string) ([]string, error) {
	var result []string
	err := c.client.CallContext(ctx, &result, c.fname(ctx, "search"), search.CompetitionDoc, query, 0, int(1e6))
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *searchCaller) Close() {
	c.client.Close()
}

func (c *searchCaller) fname(ctx context.Context, funcName string) string {
	return fmt.Sprintf("%s_%s", xcontext.Configs(ctx).SearchServer.RPCName, funcName)
}
