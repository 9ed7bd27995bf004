package cqlutil

import (
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/scylladb/gocqlx/v2"
	"github.com/scylladb/gocqlx/v2/qb"
	"github.com/scylladb/gocqlx/v2/table"
)

func CreateCluster(keyspace, addr string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(strings.Split(addr, ",")...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.ProtoVersion = 4
	cluster.ConnectTimeout = 10 * time.Second
	cluster.Timeout = 10 * time.Second
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 3}
	return cluster
}

func Insert(session gocqlx.Session, tbl *table.Table, data interface{}) error {
	stmt, names := tbl.Insert()
	err := gocqlx.Session.Query(session, stmt, names).BindStruct(data).ExecRelease()
	if err != nil {
		return err
	}

	return nil
}

func Delete(session gocqlx.Session, tbl *table.Table, data interface{}) error {
	stmt, names := tbl.Delete()
	err := gocqlx.Session.Query(session, stmt, names).BindStruct(data).ExecRelease()
	if err != nil {
		return err
	}

	return nil
}

func Select[T any](
	session gocqlx.Session,
	tbl *table.Table,
	filter T,
	limit int64,
	w ...qb.Cmp,
) ([]T, error) {
	var result []T
	metadata := tbl.Metadata()

	stmt, names := qb.Select(metadata.Name).
		Columns(metadata.Columns...).
		Where(w...).
		Limit(uint(limit)).
		ToCql()
	err := gocqlx.Session.Query(session, stmt, names).BindStruct(filter).SelectRelease(&result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func Update(session gocqlx.Session, tbl *table.Table, data interface{}) error {
	stmt, names := tbl.Update()
	err := gocqlx.Session.Query(session, stmt, names).BindStruct(data).ExecRelease()
	if err != nil {
		return err
	}

	return nil
}
