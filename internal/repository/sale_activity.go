package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/cqlutil"
	"github.com/rafflehub/backend/pkg/numberutil"
	"github.com/rafflehub/backend/pkg/reflectutil"
	"github.com/scylladb/gocqlx/v2"
	"github.com/scylladb/gocqlx/v2/qb"
	"github.com/scylladb/gocqlx/v2/table"
)

type SaleActivityRepository interface {
	Create(ctx context.Context, data *entity.SaleEvent) error
	GetRecent(ctx context.Context, competitionID string, limit int) ([]entity.SaleEvent, error)
}

type saleActivityRepository struct {
	session gocqlx.Session
	tbl     *table.Table
}

func NewSaleActivityRepository(session gocqlx.Session) *saleActivityRepository {
	e := &entity.SaleEvent{}
	m := table.Metadata{
		Name:    e.TableName(),
		Columns: reflectutil.GetColumnNames(e),
		PartKey: []string{"competition_id", "bucket"},
		SortKey: []string{"id"},
	}

	return &saleActivityRepository{session: session, tbl: table.New(m)}
}

func (r *saleActivityRepository) Create(ctx context.Context, data *entity.SaleEvent) error {
	data.Bucket = numberutil.BucketFrom(data.ID)
	return cqlutil.Insert(r.session, r.tbl, data)
}

// GetRecent returns the newest sale events of a competition. It reads the
// current bucket first and falls back to the previous one when the current
// bucket cannot fill the limit.
func (r *saleActivityRepository) GetRecent(
	ctx context.Context, competitionID string, limit int,
) ([]entity.SaleEvent, error) {
	bucket := numberutil.BucketFrom(0)

	result, err := r.getBucket(competitionID, bucket, limit)
	if err != nil {
		return nil, err
	}

	if len(result) < limit {
		previous, err := r.getBucket(competitionID, bucket-1, limit-len(result))
		if err != nil {
			return nil, err
		}

		result = append(result, previous...)
	}

	return result, nil
}

func (r *saleActivityRepository) getBucket(
	competitionID string, bucket int64, limit int,
) ([]entity.SaleEvent, error) {
	metadata := r.tbl.Metadata()
	stmt, names := qb.Select(metadata.Name).
		Columns(metadata.Columns...).
		Where(qb.Eq("competition_id"), qb.Eq("bucket")).
		OrderBy("id", qb.DESC).
		Limit(uint(limit)).
		ToCql()

	var result []entity.SaleEvent
	err := gocqlx.Session.Query(r.session, stmt, names).
		BindMap(qb.M{"competition_id": competitionID, "bucket": bucket}).
		SelectRelease(&result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
