package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		method := xcontext.HTTPRequest(ctx).Method

		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		labels := []string{method, fmt.Sprint(code)}
		for key, counter := range common.PromCounters {
			switch key {
			case common.HTTPRequestTotal:
				counter.WithLabelValues(labels...).Inc()
			}
		}

		for key, histogram := range common.PromHistograms {
			switch key {
			case common.HTTPRequestDurationSeconds:
				duration := time.Since(xcontext.StartTime(ctx))
				histogram.WithLabelValues(labels...).Observe(duration.Seconds())
			}
		}
	}
}
