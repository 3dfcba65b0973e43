package main

import (
	"context"
	"fmt"
	"log"

	common_api "assixx/internal/common/api"
	"assixx/internal/config"
	"assixx/internal/database"
	"assixx/internal/features/adminperm"
	"assixx/internal/features/audit"
	"assixx/internal/features/auth"
	"assixx/internal/features/blackboard"
	"assixx/internal/features/calendar"
	"assixx/internal/features/chat"
	"assixx/internal/features/department"
	"assixx/internal/features/kvp"
	"assixx/internal/features/shift"
	"assixx/internal/features/system"
	"assixx/internal/features/team"
	"assixx/internal/features/user"
	"assixx/internal/logger"
	"assixx/internal/middleware"
	"assixx/pkg/utils"

	_ "assixx/docs" // Import swagger docs

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

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           Assixx API
// @version         2.0
// @description     Multi-tenant workforce management backend.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			user.NewUserRepository,
			audit.NewAuditRepository,
			adminperm.NewPermissionRepository,
			department.NewDepartmentRepository,
			kvp.NewSuggestionRepository,
			team.NewTeamRepository,
			blackboard.NewEntryRepository,
			calendar.NewEventRepository,
			shift.NewShiftRepository,
			chat.NewChatRepository,

			audit.NewAuditService,
			auth.NewAuthService,
			user.NewUserService,
			adminperm.NewPermissionService,
			department.NewDepartmentService,
			kvp.NewSuggestionService,
			team.NewTeamService,
			blackboard.NewEntryService,
			calendar.NewEventService,
			shift.NewShiftService,
			chat.NewChatService,
			chat.NewHub,
			blackboard.NewScheduler,

			// Interface Adapters to satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			audit.NewAuditController,
			adminperm.NewPermissionController,
			department.NewDepartmentController,
			kvp.NewSuggestionController,
			team.NewTeamController,
			blackboard.NewEntryController,
			calendar.NewEventController,
			shift.NewShiftController,
			chat.NewChatController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(adminperm.NewPermissionApi),
			AsRoute(department.NewDepartmentApi),
			AsRoute(kvp.NewSuggestionApi),
			AsRoute(team.NewTeamApi),
			AsRoute(blackboard.NewEntryApi),
			AsRoute(calendar.NewEventApi),
			AsRoute(shift.NewShiftApi),
			AsRoute(chat.NewChatApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, scheduler *blackboard.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						scheduler.Start()
						return nil
					},
					OnStop: func(ctx context.Context) error {
						scheduler.Stop()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
