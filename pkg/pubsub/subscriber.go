package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(ctx context.Context, pack *Pack, tt time.Time)

type Subscriber interface {
	// Subscribe returns after the subscriber joined its group, then keeps
	// consuming in background until the context is cancelled.
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
