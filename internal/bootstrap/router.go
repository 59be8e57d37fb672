package bootstrap

import (
	"time"

	"github.com/flowforge-labs/flowforge-backend/config"
	httpapi "github.com/flowforge-labs/flowforge-backend/internal/api/http"
	"github.com/flowforge-labs/flowforge-backend/internal/api/http/middleware"
	"github.com/flowforge-labs/flowforge-backend/internal/auth"
	"github.com/flowforge-labs/flowforge-backend/internal/billing"
	flowshttp "github.com/flowforge-labs/flowforge-backend/internal/flows/http"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/llm"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/service"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/storage"
	"github.com/flowforge-labs/flowforge-backend/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Cfg         *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
}

// BuildRouter wires the whole API surface. The Stripe webhook sits outside
// the auth group; everything else under /api/v1 requires a Supabase token.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	flowStore := storage.NewFlowStore(dep.Redis)
	usageStore := storage.NewUsageStore(dep.Redis)

	claude := llm.New(dep.Cfg.Claude.BaseURL, dep.Cfg.Claude.APIKey,
		dep.Cfg.Claude.Model, dep.Cfg.Claude.MaxTokens)
	generator := service.NewGenerator(claude)

	billingSvc := billing.NewService(billing.Config{
		WebhookSecret: dep.Cfg.Stripe.WebhookSecret,
		PriceStarter:  dep.Cfg.Stripe.PriceStarter,
		PricePro:      dep.Cfg.Stripe.PricePro,
	}, userRepo, usageStore)
	billingHandler := billing.NewHandler(billingSvc)
	billingHandler.RegisterPublic(r)

	api := r.Group("/api/v1")
	api.Use(auth.WithUser(dep.Cfg.Supabase.JWTSecret, userRepo))

	flowshttp.New(generator, flowStore, usageStore, userRepo).Register(api)
	billingHandler.RegisterAuthed(api)

	return r
}
