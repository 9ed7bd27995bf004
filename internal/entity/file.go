package entity

import "github.com/rafflehub/backend/pkg/enum"

type BucketType string

var (
	Image = enum.New(BucketType("images"))
)
