package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-uigen-be/internal/config"
	"ai-uigen-be/internal/controller"
	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/pkg/mailer"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/memory"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/internal/service"
	"ai-uigen-be/pkg/cache"

	pktNats "ai-uigen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	ComponentController    controller.IComponentController
	QuotaController        controller.IQuotaController
	ShareController        controller.IShareController

	// Background Services (Exposed for main.go to run)
	ReconcilerService service.IReconcilerService
	SessionService    service.ISessionService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	cacheClient := cache.NewRedisClient(rdb)

	// In-process user cache for the hot auth path
	userCache := memory.NewUserCache(5*time.Minute, 2*time.Minute)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Quota.ReconcileTopic, pubSub)
	reconcilerService := service.NewReconcilerService(
		pubSub,
		cfg.Quota.ReconcileTopic,
		uowFactory,
		sysLogger,
	)

	sessionService := service.NewSessionService(uowFactory, cacheClient, sysLogger)
	authService := service.NewAuthService(
		uowFactory,
		sessionService,
		userCache,
		emailService,
		natsPub,
		sysLogger,
		cfg.Auth,
	)

	quotaService := service.NewQuotaService(uowFactory, cacheClient, publisherService, sysLogger, cfg.Quota)
	messageService := service.NewMessageService(uowFactory, cacheClient, quotaService, sysLogger)
	conversationService := service.NewConversationService(uowFactory, messageService)
	componentService := service.NewComponentService(uowFactory)
	shareService := service.NewShareService(uowFactory, natsPub, sysLogger)

	// 4. Middleware & Controllers
	authGuard := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret, sessionService)

	return &Container{
		AuthController:         controller.NewAuthController(authService, sessionService, authGuard),
		ConversationController: controller.NewConversationController(conversationService, messageService, authGuard),
		ComponentController:    controller.NewComponentController(componentService, authGuard),
		QuotaController:        controller.NewQuotaController(quotaService, authGuard),
		ShareController:        controller.NewShareController(shareService, authGuard),

		ReconcilerService: reconcilerService,
		SessionService:    sessionService,
		Logger:            sysLogger,
	}
}
