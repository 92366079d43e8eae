package bootstrap

import (
	"bufio"
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/config"
	"github.com/TheTechnextInc/mindful-chatbot/internal/constant"
	"github.com/TheTechnextInc/mindful-chatbot/internal/controller"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/logger"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/mailer"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/guard"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/unitofwork"
	"github.com/TheTechnextInc/mindful-chatbot/internal/service"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/crisis"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm/factory"

	pktNats "github.com/TheTechnextInc/mindful-chatbot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	EmergencyController controller.IEmergencyController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
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

	// 3. Crisis Detection
	detector := buildDetector(cfg)
	tracker := crisis.NewTracker(detector, crisis.DefaultWindow)
	log.Printf("[INFO] Crisis phrase list: %s (%d phrases)", detector.Version(), detector.PhraseCount())

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.PerplexityKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS (optional, escalation ops events)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Escalation cooldown guard: Redis when configured, in-process otherwise.
	var escalationGuard guard.EscalationGuard
	if cfg.App.RedisURL != "" {
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
		escalationGuard = guard.NewRedisGuard(rdb, sysLogger)
	} else {
		escalationGuard = guard.NewMemoryGuard()
	}

	// 4. Services
	publisherService := service.NewPublisherService(constant.AnalyticsTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.AnalyticsTopicName,
		uowFactory,
		sysLogger,
	)

	escalationLogger := logger.NewIsolatedLogger("logs/escalation.log")
	emergencyService := service.NewEmergencyService(
		uowFactory,
		emailService,
		escalationGuard,
		time.Duration(cfg.Crisis.CooldownMinutes)*time.Minute,
		natsPub,
		escalationLogger,
	)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		tracker,
		emergencyService,
		publisherService,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		ChatController:      controller.NewChatController(chatService),
		EmergencyController: controller.NewEmergencyController(emergencyService),

		ConsumerService: consumerService,
	}
}

// buildDetector loads the phrase list override when configured, falling back
// to the built-in curated list on any problem.
func buildDetector(cfg *config.Config) *crisis.Detector {
	if cfg.Crisis.KeywordsFile == "" {
		return crisis.NewDefaultDetector()
	}

	f, err := os.Open(cfg.Crisis.KeywordsFile)
	if err != nil {
		log.Printf("[WARN] Failed to open crisis keywords file %s: %v. Using built-in list", cfg.Crisis.KeywordsFile, err)
		return crisis.NewDefaultDetector()
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil || len(phrases) == 0 {
		log.Printf("[WARN] Crisis keywords file %s unusable: %v. Using built-in list", cfg.Crisis.KeywordsFile, err)
		return crisis.NewDefaultDetector()
	}

	version := cfg.Crisis.KeywordsVersion
	if version == "" {
		version = "custom"
	}
	return crisis.NewDetector(phrases, version)
}
