package migration

import (
	"context"
	"fmt"

	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/scylladb/gocqlx/v2"
)

// MigrateScyllaDB creates the sale activity table. Sale events are
// partitioned by competition and time bucket, newest first inside a
// partition.
func MigrateScyllaDB(ctx context.Context, session gocqlx.Session) error {
	keyspace := xcontext.Configs(ctx).ScyllaDB.KeySpace

	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.sale_events (
			competition_id text,
			bucket bigint,
			id bigint,
			user_id text,
			quantity int,
			first_number int,
			created_at timestamp,
			PRIMARY KEY ((competition_id, bucket), id)
		) WITH CLUSTERING ORDER BY (id DESC)`, keyspace)

	if err := session.ExecStmt(stmt); err != nil {
		return err
	}

	return nil
}
