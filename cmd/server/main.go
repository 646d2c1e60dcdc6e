package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/therealadik/cashcards-api/internal/config"
	"github.com/therealadik/cashcards-api/internal/handler"
	"github.com/therealadik/cashcards-api/internal/middleware"
	"github.com/therealadik/cashcards-api/internal/repository"
	"github.com/therealadik/cashcards-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// суммы сериализуются как число, а не как строка
	decimal.MarshalJSONWithoutQuotes = true

	serverCfg := config.LoadServer()
	authCfg := config.LoadAuth()

	var cardRepo repository.CardRepository
	var userRepo repository.UserRepository

	switch serverCfg.RepoBackend {
	case "pg":
		dsn := config.LoadDB().DSN()

		m, err := migrate.New("file://migrations", dsn)
		if err != nil {
			logger.Fatalf("Ошибка инициализации миграций: %v", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatalf("Ошибка применения миграций: %v", err)
		}

		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			logger.Fatalf("Ошибка подключения к БД: %v", err)
		}
		defer pool.Close()

		cardRepo = repository.NewCardRepository(pool)
		userRepo = repository.NewUserRepository(pool)
	case "mem":
		logger.Warn("Используется хранилище в памяти, данные не сохраняются")
		cardRepo = repository.NewCardRepositoryMemory()
		userRepo = repository.NewUserRepositoryMemory()
	default:
		logger.Fatalf("Неизвестный бекенд хранилища: %s", serverCfg.RepoBackend)
	}

	authService := service.NewAuthService(userRepo, authCfg)
	cardService := service.NewCardService(cardRepo)

	authMW := middleware.NewAuthMiddleware(authService, logger)
	cardHandler := handler.NewCardHandler(cardService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	router := handler.NewRouter(cardHandler, authHandler, authMW)

	logger.Infof("Сервер запущен на %s", serverCfg.Addr)
	if err := http.ListenAndServe(serverCfg.Addr, router); err != nil {
		logger.Fatalf("Ошибка сервера: %v", err)
	}
}
