package router

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/pkg/authenticator"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/session"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc returns the context used from now on. Keep the old context
// if it returns a nil context.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux
	ctx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger)
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, session.NewCookieStore(cfg.Session.Name, []byte(cfg.Session.Secret)))

	return &Router{
		mux: http.NewServeMux(),
		ctx: ctx,
	}
}

// Branch returns a new router sharing the same handler registry, but with
// independent middleware and closer chains.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:     r.mux,
		ctx:     r.ctx,
		befores: make([]MiddlewareFunc, len(r.befores)),
		afters:  make([]MiddlewareFunc, len(r.afters)),
		closers: make([]CloserFunc, len(r.closers)),
	}

	copy(branch.befores, r.befores)
	copy(branch.afters, r.afters)
	copy(branch.closers, r.closers)
	return branch
}

// Before registers a middleware running before the handler. If it returns an
// error, the handler is not called and the error is responded to the client.
func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

// After registers a middleware running after the handler. It can examine the
// response with xcontext.Response and override the responded error.
func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

// AddCloser registers a function running after the response is written.
func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func Websocket[Request any](r *Router, pattern string, handler func(ctx context.Context, req *Request) error) {
	r.mux.HandleFunc(pattern, wrapWebsocket(r, handler))
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}
