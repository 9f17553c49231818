package main

import (
	"context"
	"fmt"
	"time"

	common_api "khesed-tek/internal/common/api"
	"khesed-tek/internal/config"
	"khesed-tek/internal/database"
	"khesed-tek/internal/features/audit"
	"khesed-tek/internal/features/automation"
	"khesed-tek/internal/features/checkin"
	cron_feature "khesed-tek/internal/features/cron"
	"khesed-tek/internal/features/messaging"
	"khesed-tek/internal/features/notification"
	"khesed-tek/internal/features/prayer"
	"khesed-tek/internal/features/realtime"
	"khesed-tek/internal/features/source"
	"khesed-tek/internal/features/system"
	"khesed-tek/internal/features/task"
	"khesed-tek/internal/logger"
	"khesed-tek/internal/middleware"
	"khesed-tek/pkg/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatal("Server failed to start", zap.Error(err))
				}
			}()
			log.Info("Server started", zap.String("port", cfg.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, rules automation.AutomationRepository, executions automation.ExecutionRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := rules.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure automation rule indexes", zap.Error(err))
				}
				if err := executions.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure automation execution indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartScheduler registers maintenance jobs and runs the scheduler for the app's lifetime
func StartScheduler(lc fx.Lifecycle, scheduler *cron_feature.Scheduler, executions automation.ExecutionRepository, cfg *config.Config, log *zap.Logger) error {
	if job, ok := cron_feature.NewExecutionRetentionJob(executions, cfg, log); ok {
		if err := scheduler.Register(job); err != nil {
			return err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
	return nil
}

// InitializeSentry wires error reporting when a DSN is configured
func InitializeSentry(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     cfg.AppId,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	log.Info("Sentry error reporting enabled")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
	})
	return nil
}

// @title           Khesed-tek API
// @version         1.0
// @description     Church management automation service.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,

			database.NewDatabase,
			database.NewRedisClient,

			logger.NewDBLogWriter,
			logger.NewLogger,

			NewFiberServer,

			// Repositories
			audit.NewAuditRepository,
			automation.NewAutomationRepository,
			automation.NewExecutionRepository,
			task.NewTaskRepository,
			notification.NewNotificationRepository,
			checkin.NewCheckInRepository,
			prayer.NewPrayerRepository,
			source.NewSourceStore,

			// Messaging providers
			messaging.NewEmailProvider,
			messaging.NewSMSProvider,
			messaging.NewWhatsAppProvider,

			realtime.NewRegistry,
			cron_feature.NewScheduler,

			// Automation engine
			automation.NewRuleCache,
			automation.NewRuleSelector,
			automation.NewConfiguredEvaluator,
			automation.NewActionExecutor,
			automation.NewExecutionRecorder,
			automation.NewAutomationService,
			automation.NewDispatcher,

			// Services
			audit.NewAuditService,
			checkin.NewCheckInService,
			prayer.NewPrayerService,

			// Interface adapters so Fx can satisfy the engine's collaborators
			func(p *messaging.EmailProvider) automation.EmailSender { return p },
			func(p *messaging.SMSProvider) automation.SMSSender { return p },
			func(p *messaging.WhatsAppProvider) automation.WhatsAppSender { return p },
			func(r task.TaskRepository) automation.TaskCreator { return r },
			func(r notification.NotificationRepository) automation.Notifier { return r },
			func(s *source.SourceStore) automation.RecordTagger { return s },
			func(s *source.SourceStore) automation.SourceMarker { return s },
			func(r *realtime.Registry) automation.ExecutionBroadcaster { return r },
			func(d *automation.Dispatcher) checkin.AutomationDispatcher { return d },
			func(d *automation.Dispatcher) prayer.AutomationDispatcher { return d },

			// Controllers
			audit.NewAuditController,
			automation.NewAutomationController,
			task.NewTaskController,
			notification.NewNotificationController,
			checkin.NewCheckInController,
			prayer.NewPrayerController,
			realtime.NewRealtimeController,
			system.NewDebugController,

			// API Routes
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewDebugApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(task.NewTaskApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(checkin.NewCheckInApi),
			AsRoute(prayer.NewPrayerApi),
			AsRoute(realtime.NewRealtimeApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			InitializeSentry,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			StartScheduler,
		),
	)

	app.Run()
}
