package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)

		err := xcontext.Error(ctx)
		if err == nil {
			xcontext.Logger(ctx).Infof("%s | success", info)
			return
		}

		var errx errorx.Error
		if errors.As(err, &errx) {
			xcontext.Logger(ctx).Warnf("%s | %d | %s", info, errx.Code, errx.Message)
		} else {
			xcontext.Logger(ctx).Errorf("%s | -1 | %v", info, err)
		}
	}
}
