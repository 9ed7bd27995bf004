package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/pkg/authenticator"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/session"
	"github.com/rafflehub/backend/pkg/ws"
	"gorm.io/gorm"
)

type (
	httpRequestKey     struct{}
	httpWriterKey      struct{}
	configsKey         struct{}
	loggerKey          struct{}
	dbKey              struct{}
	dbTransactionKey   struct{}
	tokenEngineKey     struct{}
	sessionStoreKey    struct{}
	snowflakeKey       struct{}
	rpcSearchClientKey struct{}
	wsClientKey        struct{}
	requestUserIDKey   struct{}
	errorKey           struct{}
	responseKey        struct{}
	startTimeKey       struct{}
)

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	return ctx.Value(httpRequestKey{}).(*http.Request)
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	return ctx.Value(httpWriterKey{}).(http.ResponseWriter)
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction if it began and hasn't been committed
// or rolled back yet, otherwise, the root database connection is returned.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !tx.done {
		return tx.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a transaction and replaces the returned value of
// DB() by that transaction.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction. It is a no-op if
// no transaction began or it already ended.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction. It is a no-op
// if no transaction began or it already ended, so it is safe to defer this
// method right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}

	return ctx
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSessionStore(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) *session.Store {
	return ctx.Value(sessionStoreKey{}).(*session.Store)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return ctx.Value(snowflakeKey{}).(*snowflake.Node)
}

func WithRPCSearchClient(ctx context.Context, client *rpc.Client) context.Context {
	return context.WithValue(ctx, rpcSearchClientKey{}, client)
}

func RPCSearchClient(ctx context.Context) *rpc.Client {
	return ctx.Value(rpcSearchClientKey{}).(*rpc.Client)
}

func WithWSClient(ctx context.Context, client *ws.Client) context.Context {
	return context.WithValue(ctx, wsClientKey{}, client)
}

func WSClient(ctx context.Context) *ws.Client {
	return ctx.Value(wsClientKey{}).(*ws.Client)
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(requestUserIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, ok := ctx.Value(errorKey{}).(error)
	if !ok {
		return nil
	}

	return err
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return time.Time{}
	}

	return t
}
