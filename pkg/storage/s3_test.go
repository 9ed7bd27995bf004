package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateUploadURL(t *testing.T) {
	storage := NewS3Storage(&S3Configs{
		Endpoint:       "http://localhost:9000",
		PublicEndpoint: "https://cdn.example.com",
		AccessKey:      "access",
		SecretKey:      "secret",
		Region:         "us-west-1",
	})

	resp := storage.(*s3Storage).generateUploadURL(context.Background(), &UploadObject{
		Bucket:   "rafflehub",
		Prefix:   "competitions",
		FileName: "banner.jpg",
		Mime:     "image/jpeg",
	})

	require.True(t, strings.HasPrefix(resp.Url, "https://cdn.example.com/rafflehub/competitions/"))
	require.True(t, strings.HasSuffix(resp.Url, "-banner.jpg"))
	require.True(t, strings.HasPrefix(resp.FileName, "competitions/"))
}
