package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/ws"
	"github.com/rafflehub/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		defer func() {
			for _, closer := range r.closers {
				closer(ctx)
			}
		}()

		if req.Method != method {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.NotFound, "Not found"))
			writeResponse(ctx, w)
			return
		}

		var request Request
		if err := bindRequest(req, method, &request); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot bind the request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			writeResponse(ctx, w)
			return
		}

		ctx, ok := runMiddlewares(ctx, r.befores)
		if !ok {
			writeResponse(ctx, w)
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		} else {
			ctx = xcontext.WithResponse(ctx, resp)
		}

		ctx, _ = runMiddlewares(ctx, r.afters)
		writeResponse(ctx, w)
	}
}

func wrapWebsocket[Request any](
	r *Router,
	handler func(ctx context.Context, req *Request) error,
) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	return func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		var request Request
		if err := bindRequest(req, http.MethodGet, &request); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot bind the request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			writeResponse(ctx, w)
			return
		}

		ctx, ok := runMiddlewares(ctx, r.befores)
		if !ok {
			writeResponse(ctx, w)
			return
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot upgrade the connection: %v", err)
			return
		}
		defer conn.Close()

		ctx = xcontext.WithWSClient(ctx, ws.NewClient(conn))
		if err := handler(ctx, &request); err != nil {
			xcontext.Logger(ctx).Warnf("Websocket handler got an error: %v", err)
		}
	}
}

// runMiddlewares executes middlewares in order. It stops at the first failed
// middleware and reports the execution as not ok.
func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, bool) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return xcontext.WithError(ctx, err), false
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, true
}

func bindRequest(req *http.Request, method string, out any) error {
	switch method {
	case http.MethodGet:
		values := map[string]any{}
		for key, value := range req.URL.Query() {
			if len(value) > 0 {
				values[key] = value[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           out,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(values)

	case http.MethodPost:
		// Endpoints receiving a multipart body parse the form on their own.
		if !strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
			return nil
		}

		if err := json.NewDecoder(req.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		return nil

	default:
		return errors.New("unsupported method")
	}
}
