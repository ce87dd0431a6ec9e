package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"repair-service/pkg/config"
	"repair-service/pkg/trackcode"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	boltDB *bolt.DB,
	codes *trackcode.Generator,
	cfg *config.Config,
	logger *zap.Logger,
) error {
	apiGroup := e.Group("/api")

	if err := runRequestRouter(apiGroup, dbConn, redisClient, boltDB, codes, cfg, logger); err != nil {
		return err
	}
	return nil
}
