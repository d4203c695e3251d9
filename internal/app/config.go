package app

import (
	"time"

	"github.com/shotline/shotline-backend/internal/pkg/envutil"
	"github.com/shotline/shotline-backend/internal/pkg/logger"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OpenAIEnabled       bool
	CollaboratorTimeout time.Duration
	MaxAppendRetries    int

	RedisEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	openAIEnabled := envutil.GetEnvAsBool("OPENAI_ENABLED", true, log)
	collaboratorTimeoutSeconds := envutil.GetEnvAsInt("COLLABORATOR_TIMEOUT_SECONDS", 60, log)
	maxAppendRetries := envutil.GetEnvAsInt("MAX_APPEND_RETRIES", 3, log)
	redisEnabled := envutil.GetEnvAsBool("REDIS_ENABLED", false, log)

	return Config{
		JWTSecretKey:        jwtSecretKey,
		AccessTokenTTL:      time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:     time.Duration(refreshTokenTTLSeconds) * time.Second,
		OpenAIEnabled:       openAIEnabled,
		CollaboratorTimeout: time.Duration(collaboratorTimeoutSeconds) * time.Second,
		MaxAppendRetries:    maxAppendRetries,
		RedisEnabled:        redisEnabled,
	}
}
