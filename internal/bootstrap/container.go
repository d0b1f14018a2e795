package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/handler"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/artifact"
	"ai-chat-be/pkg/chat/access"
	"ai-chat-be/pkg/chat/history"
	"ai-chat-be/pkg/chat/title"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/factory"
	"ai-chat-be/pkg/storage"
	"ai-chat-be/pkg/stream"

	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// titleTopic is the in-process queue for asynchronous chat title generation.
const titleTopic = "generate_chat_title"

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	ChatController     controller.IChatController
	VoteController     controller.IVoteController
	DocumentController controller.IDocumentController
	UploadController   controller.IUploadController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
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
		cfg.SMTP.SenderName,
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
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Stream resume falls back to in-process buffer", err)
		redisUp = false
	}

	// Stream buffer: Redis when reachable so resume survives restarts,
	// in-process otherwise.
	var buffer stream.Buffer
	if redisUp {
		buffer = stream.NewRedisBuffer(rdb, constant.StreamBufferTTL)
	} else {
		buffer = stream.NewMemoryBuffer(constant.StreamBufferTTL)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	var hubRedis *redis.Client
	if redisUp {
		hubRedis = rdb
	}
	wsHub := websocket.NewHub(hubRedis, wsLogger)
	go wsHub.Run()

	// 3. AI Components
	llmProvider := mustProvider(cfg, cfg.Ai.LLMModel)
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Artifact generation may run on a cheaper model.
	artifactProvider := llmProvider
	if cfg.Ai.ArtifactModel != "" && cfg.Ai.ArtifactModel != cfg.Ai.LLMModel {
		artifactProvider = mustProvider(cfg, cfg.Ai.ArtifactModel)
		log.Printf("[INFO] Using Artifact Model: %s", cfg.Ai.ArtifactModel)
	}

	registry := artifact.NewRegistry(artifactProvider)
	orchestrator := stream.NewOrchestrator(
		llmProvider,
		sysLogger,
		cfg.Ai.MaxToolRounds,
		time.Duration(cfg.Ai.StreamMaxSecs)*time.Second,
	)
	titleGenerator := title.NewGenerator(llmProvider, sysLogger)

	verifier := access.NewVerifier(
		cfg.Quota.GuestMessagesPerDay,
		cfg.Quota.RegularMessagesPerDay,
		time.Duration(cfg.Quota.WindowHours)*time.Hour,
	)
	historyLoader := history.NewLoader(cfg.Ai.HistoryWindow)

	// Object storage for attachments
	var store storage.ObjectStorage
	if cfg.Storage.Driver == "minio" {
		minioStore, err := storage.NewMinioStorage(context.Background(), storage.MinioConfig{
			Endpoint:  cfg.Storage.MinioEndpoint,
			AccessKey: cfg.Storage.MinioAccessKey,
			SecretKey: cfg.Storage.MinioSecretKey,
			Bucket:    cfg.Storage.MinioBucket,
			UseSSL:    cfg.Storage.MinioUseSSL,
		})
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize MinIO storage: %v", err)
		}
		store = minioStore
	} else {
		localStore, err := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.App.BaseURL+"/uploads")
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize local storage: %v", err)
		}
		store = localStore
	}

	// 4. Services
	publisherService := service.NewPublisherService(titleTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		titleTopic,
		uowFactory,
		titleGenerator,
		natsPub,
	)

	authService := service.NewAuthService(
		uowFactory,
		emailService,
		natsPub,
		cfg.Auth.JwtSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)
	oauthService := service.NewOAuthService(uowFactory, authService)
	documentService := service.NewDocumentService(uowFactory, registry)

	chatService := service.NewChatService(
		uowFactory,
		authService,
		documentService,
		orchestrator,
		verifier,
		historyLoader,
		publisherService,
		buffer,
		natsPub,
		sysLogger,
	)

	voteService := service.NewVoteService(uowFactory, verifier)
	uploadService := service.NewUploadService(store)

	// 4.5 Notification push worker
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		OAuthController:    controller.NewOAuthController(oauthService),
		ChatController:     controller.NewChatController(chatService),
		VoteController:     controller.NewVoteController(voteService),
		DocumentController: controller.NewDocumentController(documentService),
		UploadController:   controller.NewUploadController(uploadService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}

func mustProvider(cfg *config.Config, model string) llm.LLMProvider {
	baseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "groq" {
		baseURL = cfg.Ai.GroqBaseURL
	}

	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, model, baseURL, cfg.Ai.GroqAPIKey)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	return provider
}
