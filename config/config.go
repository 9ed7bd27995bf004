package config

import (
	"fmt"
	"time"

	"github.com/rafflehub/backend/pkg/storage"
)

type Configs struct {
	Env string

	Database     DatabaseConfigs
	ApiServer    APIServerConfigs
	SearchServer SearchServerConfigs
	Auth         AuthConfigs
	Session      SessionConfigs
	Storage      storage.S3Configs
	File         FileConfigs
	Competition  CompetitionConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
	ScyllaDB     ScyllaDBConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs
	MaxLimit       int
	DefaultLimit   int
	AllowedDomains []string
}

type SearchServerConfigs struct {
	ServerConfigs
	RPCName  string
	Endpoint string
	IndexDir string
}

type AuthConfigs struct {
	TokenSecret  string
	AccessToken  TokenConfigs
	RefreshToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type FileConfigs struct {
	MaxSize int64
}

type CompetitionConfigs struct {
	// The biggest number of tickets a single order can request.
	MaxTicketsPerOrder int

	QuestionMaxOptions int

	StatusCheckFrequency   time.Duration
	TrendingScoreFrequency time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type ScyllaDBConfigs struct {
	Addr     string
	KeySpace string
}
