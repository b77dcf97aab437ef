package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	// --- 导入内部包 ---
	"ngl-chats/internal/ai"
	httpHandler "ngl-chats/internal/handler/http"
	wsHandler "ngl-chats/internal/handler/websocket"
	"ngl-chats/internal/hub"
	"ngl-chats/internal/infra/setup"
	"ngl-chats/internal/middleware"
	"ngl-chats/internal/service"
	"ngl-chats/internal/store"
	"ngl-chats/internal/tasks"
	"ngl-chats/internal/worker"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	Store       *store.Store
	RedisClient *redis.Client        // 未配置 REDIS_ADDR 时为 nil
	AsynqClient *asynq.Client        // 未配置 REDIS_ADDR 时为 nil
	AsynqServer *worker.WorkerServer // 未配置 REDIS_ADDR 时为 nil
	Hub         *hub.Hub
	HttpServer  *http.Server

	// 控制进程内后台任务 (InlineQueue) 的生命周期
	background context.Context
	cancel     context.CancelFunc
}

// NewApp 创建并初始化应用的所有组件
func NewApp(cfg *Config) (*App, error) {
	// 1. 初始化 Logger
	log := NewLogger(cfg)
	log.Infof("Logger initialized (Level: %s, Env: %s)", log.GetLevel().String(), cfg.AppEnv)

	background, cancel := context.WithCancel(context.Background())
	app := &App{Config: cfg, Log: log, background: background, cancel: cancel}

	// 2. 初始化 Store
	app.Store = store.New()
	if cfg.SeedDemoData {
		app.Store.Seed(time.Now())
		log.Info("Demo data seeded")
	}

	// 3. 初始化 AI
	var gen ai.Generator = ai.DisabledGenerator{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiGenerator(background, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		gen = gemini
		log.WithField("model", cfg.GeminiModel).Info("Gemini generator initialized")
	} else {
		log.Warn("GEMINI_API_KEY not set, AI assistance will return fallback results")
	}
	assistant := ai.NewAssistant(gen, cfg.AITimeout)

	// 4. 初始化 Services
	sessionService := service.NewSessionService(app.Store)
	groupService := service.NewGroupService(app.Store)
	messageService := service.NewMessageService(app.Store)
	assistService := service.NewAssistService(app.Store, assistant)
	viewService := service.NewViewService(app.Store)
	log.Info("Services initialized")

	// 5. 初始化基础设施 (Redis 可选)
	if cfg.RedisAddr != "" {
		redisClient, err := setup.InitRedis(background, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient

		redisClientOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(redisClientOpt)
		assistService.SetQueue(tasks.NewEnqueuer(app.AsynqClient, ""))
		app.AsynqServer = worker.NewWorkerServer(redisClientOpt, assistService, 0, log)
		log.Info("Asynq client and worker server initialized")
	} else {
		assistService.SetQueue(service.NewInlineQueue(background, assistService))
		log.Warn("REDIS_ADDR not set: rate limiting disabled, safety analysis runs in-process")
	}

	// 6. 初始化 Hub 和 Handlers
	app.Hub = hub.NewHub(app.Store)
	handlers := Handlers{
		Session: httpHandler.NewSessionHandler(sessionService),
		Group:   httpHandler.NewGroupHandler(groupService),
		Message: httpHandler.NewMessageHandler(messageService),
		Assist:  httpHandler.NewAssistHandler(assistService),
		View:    httpHandler.NewViewHandler(viewService),
		WS:      wsHandler.NewWebSocketHandler(app.Hub, cfg.CORSOrigin),
	}

	// 7. 初始化 Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(middleware.CORS(cfg.CORSOrigin))
	if app.RedisClient != nil {
		router.Use(middleware.RateLimit(app.RedisClient, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	RegisterRoutes(router, app.Store, handlers)
	log.Info("Router setup complete")

	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app, nil
}

// Start 启动应用的所有后台 Goroutine 和 HTTP 服务器
func (a *App) Start() {
	go a.Hub.Run()
	a.Log.Info("Hub routine started")

	if a.AsynqServer != nil {
		go a.AsynqServer.Start()
		a.Log.Info("Asynq worker server routine started")
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止接收新请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 停止 Hub，关闭所有 WebSocket 连接
	if a.Hub != nil {
		a.Hub.Stop()
	}

	// 3. 停止后台任务
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}
	a.cancel()

	// 4. 关闭 Asynq Client 和 Redis 连接
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		} else {
			a.Log.Info("Asynq client closed.")
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		} else {
			a.Log.Info("Redis connection closed.")
		}
	}

	a.Log.Info("Application shutdown complete.")
}
