package testutil

import (
	"context"
	"fmt"

	"github.com/rafflehub/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc     func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
	BulkUploadFunc func(context.Context, []*storage.UploadObject) ([]*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return &storage.UploadResponse{
		FileName: obj.FileName,
		Url:      fmt.Sprintf("http://storage.local/%s/%s", obj.Bucket, obj.FileName),
	}, nil
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, objs []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, objs)
	}

	resp := []*storage.UploadResponse{}
	for _, obj := range objs {
		r, err := m.Upload(ctx, obj)
		if err != nil {
			return nil, err
		}

		resp = append(resp, r)
	}

	return resp, nil
}
