package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/storage"

	"github.com/BurntSushi/toml"
)

// settings resolves configuration values in order: environment variable,
// TOML file given with --config, then the built-in default.
type settings struct {
	file map[string]string
}

func newSettings(configFile string) (*settings, error) {
	s := &settings{file: map[string]string{}}
	if configFile == "" {
		return s, nil
	}

	if _, err := toml.DecodeFile(configFile, &s.file); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *settings) get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	if value, ok := s.file[key]; ok {
		return value
	}

	return fallback
}

func (s *settings) getInt(key string, fallback int) int {
	value, err := strconv.Atoi(s.get(key, ""))
	if err != nil {
		return fallback
	}

	return value
}

func (s *settings) getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(s.get(key, ""))
	if err != nil {
		return fallback
	}

	return value
}

func loadConfig(configFile string) (config.Configs, error) {
	s, err := newSettings(configFile)
	if err != nil {
		return config.Configs{}, err
	}

	return config.Configs{
		Env: s.get("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     s.get("MYSQL_HOST", "localhost"),
			Port:     s.get("MYSQL_PORT", "3306"),
			User:     s.get("MYSQL_USER", "rafflehub"),
			Password: s.get("MYSQL_PASSWORD", "rafflehub"),
			Database: s.get("MYSQL_DATABASE", "rafflehub"),
		},
		ApiServer: config.APIServerConfigs{
			ServerConfigs: config.ServerConfigs{
				Host: s.get("API_HOST", "localhost"),
				Port: s.get("API_PORT", "8080"),
				Cert: s.get("API_SERVER_CERT", ""),
				Key:  s.get("API_SERVER_KEY", ""),
			},
			MaxLimit:       s.getInt("API_MAX_LIMIT", 50),
			DefaultLimit:   s.getInt("API_DEFAULT_LIMIT", 10),
			AllowedDomains: strings.Split(s.get("API_ALLOWED_DOMAINS", "*"), ","),
		},
		SearchServer: config.SearchServerConfigs{
			ServerConfigs: config.ServerConfigs{
				Host: s.get("SEARCH_SERVER_HOST", "localhost"),
				Port: s.get("SEARCH_SERVER_PORT", "8082"),
			},
			RPCName:  s.get("SEARCH_RPC_NAME", "searchIndexer"),
			Endpoint: s.get("SEARCH_SERVER_ENDPOINT", "http://localhost:8082"),
			IndexDir: s.get("SEARCH_INDEX_DIR", "searchindex"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: s.get("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: s.getDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: s.getDuration("REFRESH_TOKEN_DURATION", 24*time.Hour),
			},
		},
		Session: config.SessionConfigs{
			Secret: s.get("SESSION_SECRET", "session_secret"),
			Name:   s.get("SESSION_NAME", "cart"),
		},
		Storage: storage.S3Configs{
			Region:         s.get("STORAGE_REGION", "auto"),
			Endpoint:       s.get("STORAGE_ENDPOINT", "http://localhost:9000"),
			PublicEndpoint: s.get("STORAGE_PUBLIC_ENDPOINT", "http://localhost:9000"),
			AccessKey:      s.get("STORAGE_ACCESS_KEY", "access_key"),
			SecretKey:      s.get("STORAGE_SECRET_KEY", "secret_key"),
			SSLDisabled:    s.get("STORAGE_SSL_DISABLED", "false") == "true",
		},
		File: config.FileConfigs{
			MaxSize: int64(s.getInt("MAX_UPLOAD_FILE_SIZE", 2*1024*1024)),
		},
		Competition: config.CompetitionConfigs{
			MaxTicketsPerOrder:     s.getInt("MAX_TICKETS_PER_ORDER", 20),
			QuestionMaxOptions:     s.getInt("QUESTION_MAX_OPTIONS", 10),
			StatusCheckFrequency:   s.getDuration("STATUS_CHECK_FREQUENCY", time.Minute),
			TrendingScoreFrequency: s.getDuration("TRENDING_SCORE_FREQUENCY", 24*time.Hour),
		},
		Redis: config.RedisConfigs{
			Addr: s.get("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: s.get("KAFKA_ADDR", "localhost:9092"),
		},
		ScyllaDB: config.ScyllaDBConfigs{
			Addr:     s.get("SCYLLA_ADDR", "localhost:9042"),
			KeySpace: s.get("SCYLLA_KEYSPACE", "rafflehub"),
		},
	}, nil
}

func logLevel(env string) int {
	if env == "local" || env == "dev" {
		return logger.DEBUG
	}

	return logger.INFO
}
