package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"darwinian-be/internal/config"
	"darwinian-be/internal/controller"
	"darwinian-be/internal/handler"
	"darwinian-be/internal/pkg/logger"
	"darwinian-be/internal/pkg/serverutils"
	"darwinian-be/internal/repository/implementation"
	sessionmemory "darwinian-be/internal/repository/memory"
	"darwinian-be/internal/repository/redisstore"
	"darwinian-be/internal/service"
	"darwinian-be/internal/websocket"
	"darwinian-be/pkg/agent"
	"darwinian-be/pkg/database"
	"darwinian-be/pkg/embedding"
	"darwinian-be/pkg/llm/factory"
	"darwinian-be/pkg/memory"
	pktNats "darwinian-be/pkg/nats"
	"darwinian-be/pkg/store"
	"darwinian-be/pkg/workflow"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventTopic is the in-process bus topic every session event goes through.
const EventTopic = "darwin.events"

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	MemoryController controller.IMemoryController
	RefineController controller.IRefineController
	HealthController *controller.HealthController
	StreamHandler    *handler.StreamHandler

	// Services, exposed for the CLI
	ChatService   service.IChatService
	RefineService service.IRefineService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// Defaults turns the configured models into the session defaults.
func Defaults(cfg *config.Config) agent.Settings {
	return agent.Settings{
		APIKey:            cfg.Ai.APIKey,
		OrchestratorModel: cfg.Ai.OrchestratorModel,
		IngestionModel:    cfg.Ai.IngestionModel,
		CoderModel:        cfg.Ai.CoderModel,
		AuditorModel:      cfg.Ai.AuditorModel,
		RepairModel:       cfg.Ai.RepairModel,
	}
}

func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	c.Logger = sysLogger

	// 2. Oracle gateways
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.OrchestratorModel, cfg.Ai.LLMBaseURL, cfg.Ai.APIKey)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)

	refineBaseURL := cfg.Ai.LLMBaseURL
	if cfg.Ai.RefineProvider == factory.ProviderOllama {
		refineBaseURL = cfg.Ai.OllamaBaseURL
	}
	refineProvider, err := factory.NewLLMProvider(cfg.Ai.RefineProvider, cfg.Ai.RefineModel, refineBaseURL, cfg.Ai.APIKey)
	if err != nil {
		return nil, fmt.Errorf("refine provider: %w", err)
	}

	// 3. Memory
	memStore, err := c.newMemoryStore(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using Memory Backend: %s", cfg.Memory.Backend)

	// 4. Infrastructure
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		rdb = newRedisClient(cfg.App.RedisURL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	sessions, err := newSessionRepository(cfg, rdb)
	if err != nil {
		return nil, err
	}

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// NATS is optional; a typed nil must not reach the consumer
	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, EventTopic)
	c.ConsumerService = service.NewConsumerService(pubSub, EventTopic, c.WebSocketHub, forwarder, sysLogger)

	c.ChatService = service.NewChatService(llmProvider, memStore, sessions, publisherService, service.ChatOptions{
		Defaults:      Defaults(cfg),
		AutoAudit:     cfg.Ai.AutoAudit,
		MemoryTopK:    cfg.Memory.TopK,
		MemoryBackend: cfg.Memory.Backend,
	}, llmLogger)

	refiner := workflow.NewRefiner(refineProvider, cfg.Ai.RefineModel, llmLogger)
	c.RefineService = service.NewRefineService(refiner, publisherService, sysLogger)

	// 6. Controllers
	auth := serverutils.JwtMiddleware(cfg.App.JWTSecret)
	c.ChatController = controller.NewChatController(c.ChatService, auth)
	c.MemoryController = controller.NewMemoryController(c.ChatService, auth)
	c.RefineController = controller.NewRefineController(c.RefineService, auth)
	c.HealthController = controller.NewHealthController(cfg.Memory.Backend)
	c.StreamHandler = handler.NewStreamHandler(c.ChatService, c.WebSocketHub, cfg.App.JWTSecret, sysLogger)

	return c, nil
}

// Start runs the hub and the event consumer until ctx is done.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.ConsumerService.Consume(ctx)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func (c *Container) newMemoryStore(cfg *config.Config, log logger.ILogger) (memory.Store, error) {
	switch cfg.Memory.Backend {
	case config.MemoryBackendFile, "":
		return memory.NewFileStore(cfg.Memory.FilePath, log), nil

	case config.MemoryBackendVector:
		return memory.NewVectorStore(newEmbedder(cfg)), nil

	case config.MemoryBackendPgVector:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("pgvector memory: %w", err)
		}
		c.closers = append(c.closers, func() { closeDB(db) })
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		repo := implementation.NewMemoryRecordRepository(db)
		return memory.NewPgStore(repo, newEmbedder(cfg)), nil

	default:
		return nil, fmt.Errorf("unsupported memory backend: %s", cfg.Memory.Backend)
	}
}

func newEmbedder(cfg *config.Config) embedding.EmbeddingProvider {
	baseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.EmbeddingProvider == embedding.ProviderOpenAI {
		baseURL = cfg.Ai.LLMBaseURL
	}
	return embedding.NewProvider(cfg.Ai.EmbeddingProvider, baseURL, cfg.Ai.EmbeddingModel, cfg.Ai.APIKey, cfg.Ai.EmbeddingDims)
}

func newRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}

func newSessionRepository(cfg *config.Config, rdb *redis.Client) (store.SessionRepository, error) {
	ttl := time.Duration(cfg.App.SessionTTLMinutes) * time.Minute

	switch cfg.App.SessionStore {
	case config.SessionStoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("SESSION_STORE=redis requires REDIS_URL")
		}
		return redisstore.NewSessionRepository(rdb, ttl), nil
	default:
		return sessionmemory.NewSessionRepository(ttl), nil
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

