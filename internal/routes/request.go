package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"repair-service/internal/controllers"
	"repair-service/internal/repositories"
	"repair-service/internal/services"
	"repair-service/pkg/config"
	"repair-service/pkg/mailer"
	"repair-service/pkg/notifygate"
	"repair-service/pkg/smsgateway"
	"repair-service/pkg/trackcode"
)

func runRequestRouter(
	group *echo.Group,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	boltDB *bolt.DB,
	codes *trackcode.Generator,
	cfg *config.Config,
	logger *zap.Logger,
) error {
	requestRepo := repositories.NewRequestRepository(dbConn, logger)
	fallbackRepo, err := repositories.NewBoltFallbackRepository(boltDB, logger)
	if err != nil {
		return err
	}

	var cacheRepo repositories.CacheRepositoryInterface
	if redisClient != nil {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
	}

	notifier := services.NewNotificationService(
		notifygate.NewService(cfg.Notify.GatewayURL, cfg.Notify.GatewayToken),
		smsgateway.NewService(cfg.Notify.SMSVendorURL, cfg.Notify.SMSVendorToken, cfg.Notify.SMSFrom),
		mailer.NewService(cfg.Notify.SMTPHost, cfg.Notify.SMTPPort, cfg.Notify.SMTPUser, cfg.Notify.SMTPPass, cfg.Notify.MailFrom),
		cfg.Notify.TrackingBaseURL,
		cfg.Notify.Timeout,
		logger,
	)

	requestService := services.NewRequestService(
		requestRepo,
		fallbackRepo,
		cacheRepo,
		notifier,
		codes,
		cfg.Postgres.QueryTimeout,
		logger,
	)
	trackingService := services.NewTrackingService(
		requestRepo,
		fallbackRepo,
		cacheRepo,
		cfg.Redis.TrackCacheTTL,
		cfg.Postgres.QueryTimeout,
		logger,
	)

	requestCtrl := controllers.NewRequestController(requestService, trackingService, logger)
	reportCtrl := controllers.NewReportController(requestService, logger)

	requestsGroup := group.Group("/requests")
	{
		requestsGroup.POST("/repair", requestCtrl.SubmitRepair)
		requestsGroup.POST("/buyback", requestCtrl.SubmitBuyback)
		requestsGroup.GET("/track/:code", requestCtrl.Track)
		requestsGroup.GET("", requestCtrl.GetRequests)
		requestsGroup.PUT("/:code/status", requestCtrl.ChangeStatus)
	}
	group.GET("/reports/requests/export", reportCtrl.ExportRequests)

	return nil
}
