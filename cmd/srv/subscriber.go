package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/pkg/kafka"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
)

// startSubscriber consumes order events into the scylla sale activity feed
// and keeps an audit trail of draw events.
func (s *srv) startSubscriber(*cli.Context) error {
	s.loadScyllaDB()
	defer s.scyllaDBSession.Close()

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)

	kafkaAddr := xcontext.Configs(s.ctx).Kafka.Addr
	saleSubscriber := kafka.NewSubscriber(
		"sale_activity",
		[]string{kafkaAddr},
		[]string{model.OrderCreatedTopic},
		s.handleOrderCreated,
	)
	drawSubscriber := kafka.NewSubscriber(
		"draw_audit",
		[]string{kafkaAddr},
		[]string{model.WinnersDrawnTopic},
		s.handleWinnersDrawn,
	)

	saleSubscriber.Subscribe(s.ctx)
	drawSubscriber.Subscribe(s.ctx)
	xcontext.Logger(s.ctx).Infof("Subscriber started")

	termSignal := make(chan os.Signal, 1)
	signal.Notify(termSignal, syscall.SIGINT, syscall.SIGTERM)
	<-termSignal

	saleSubscriber.Stop(s.ctx)
	drawSubscriber.Stop(s.ctx)
	xcontext.Logger(s.ctx).Infof("Subscriber stopped")
	return nil
}

func (s *srv) handleOrderCreated(ctx context.Context, pack *pubsub.Pack, tt time.Time) {
	// The consumer context carries nothing, deps live on the command context.
	ctx = s.ctx

	var event model.OrderCreatedEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal order created event: %v", err)
		return
	}

	err := s.saleActivityRepo.Create(ctx, &entity.SaleEvent{
		ID:            xcontext.SnowFlake(ctx).Generate().Int64(),
		CompetitionID: event.CompetitionID,
		UserID:        event.UserID,
		Quantity:      event.Quantity,
		FirstNumber:   event.FirstNumber,
		CreatedAt:     event.CreatedAt,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create sale event of order %s: %v", event.OrderID, err)
		return
	}

	xcontext.Logger(ctx).Debugf("Recorded sale of order %s", event.OrderID)
}

func (s *srv) handleWinnersDrawn(ctx context.Context, pack *pubsub.Pack, tt time.Time) {
	ctx = s.ctx

	var event model.WinnersDrawnEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal winners drawn event: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Competition %s drew %d winners at %s",
		event.CompetitionID, len(event.WinnerIDs), tt.Format(time.RFC3339))
}
