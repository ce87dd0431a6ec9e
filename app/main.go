// Файл: main.go

package main

import (
	"context"
	"database/sql"
	"embed"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"repair-service/internal/routes"
	"repair-service/pkg/api"
	"repair-service/pkg/config"
	"repair-service/pkg/database/postgresql"
	apperrors "repair-service/pkg/errors"
	applogger "repair-service/pkg/logger"
	"repair-service/pkg/trackcode"
	"repair-service/pkg/utils"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err)
				_ = api.ErrorResponse(c, httpErr)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.Validator = utils.NewValidator(validator.New())

	// Миграции накатываем до подключения пула: если БД недоступна, сервис
	// все равно поднимается - заявки будут уходить в резервный кеш.
	runMigrations(cfg.Postgres.DSN, logger)

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	// Redis - только ускоритель трекинга, без него сервис работает дальше.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn("не удалось подключиться к Redis, горячий кеш трекинга отключен",
			zap.Error(err), zap.String("address", cfg.Redis.Address))
		redisClient = nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Bolt.Path), 0o755); err != nil {
		logger.Fatal("не удалось создать каталог резервного кеша", zap.Error(err))
	}
	boltDB, err := bolt.Open(cfg.Bolt.Path, 0600, nil)
	if err != nil {
		logger.Fatal("не удалось открыть локальный резервный кеш", zap.Error(err), zap.String("path", cfg.Bolt.Path))
	}
	defer boltDB.Close()

	codes, err := trackcode.NewGenerator(1)
	if err != nil {
		logger.Fatal("не удалось инициализировать генератор трек-кодов", zap.Error(err))
	}

	if err := routes.InitRouter(e, dbConn, redisClient, boltDB, codes, cfg, logger); err != nil {
		logger.Fatal("Ошибка инициализации роутера", zap.Error(err))
	}

	logger.Info("🚀 Сервер запущен на :" + cfg.Server.Port)
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}

func runMigrations(dsn string, logger *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Warn("миграции пропущены: не удалось открыть соединение", zap.Error(err))
		return
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Warn("миграции пропущены: неизвестный диалект", zap.Error(err))
		return
	}
	if err := goose.Up(db, "migrations"); err != nil {
		logger.Warn("не удалось применить миграции", zap.Error(err))
	}
}
