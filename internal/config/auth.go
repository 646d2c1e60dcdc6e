package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func LoadAuth() AuthConfig {
	ttl, err := time.ParseDuration(getEnv("AUTH_TOKEN_TTL", "24h"))
	if err != nil {
		logrus.Warnf("Неверное значение AUTH_TOKEN_TTL, используется 24h: %v", err)
		ttl = 24 * time.Hour
	}

	cfg := AuthConfig{
		JWTSecret: getEnv("AUTH_JWT_SECRET", "cashcardsDefaultSecret2024"),
		TokenTTL:  ttl,
	}

	logrus.Info("Конфигурация аутентификации загружена")

	return cfg
}
