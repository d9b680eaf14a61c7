package api

import (
	"errors"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/home-services-backend/internal/admin"
	adminHttp "github.com/nekogravitycat/home-services-backend/internal/admin/http"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/home-services-backend/internal/booking/http"
	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	catalogHttp "github.com/nekogravitycat/home-services-backend/internal/catalog/http"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
	professionalHttp "github.com/nekogravitycat/home-services-backend/internal/professional/http"
	"github.com/nekogravitycat/home-services-backend/internal/review"
	reviewHttp "github.com/nekogravitycat/home-services-backend/internal/review/http"
	"github.com/nekogravitycat/home-services-backend/internal/user"
	userHttp "github.com/nekogravitycat/home-services-backend/internal/user/http"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	Logger       logrus.FieldLogger

	UserService         user.Service
	CatalogService      catalog.Service
	ProfessionalService professional.Service
	BookingService      booking.Service
	ReviewService       review.Service
	AdminService        admin.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for every module.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: structured request log, also exposes the logger to handlers.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logging.GinLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		if len(cfg.ProdOrigins) == 0 {
			return nil, errors.New("production mode requires at least one allowed origin")
		}
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// Role gates. They MUST run after authMiddleware.
	customerMiddleware := auth.RequireRole(auth.RoleCustomer)
	professionalMiddleware := auth.RequireRole(auth.RoleProfessional)
	adminMiddleware := auth.RequireRole(auth.RoleAdmin)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService)
	professionalHandler := professionalHttp.NewHandler(cfg.ProfessionalService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService)
	adminHandler := adminHttp.NewHandler(cfg.AdminService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware, adminMiddleware)
		professionalHttp.RegisterRoutes(v1, professionalHandler, authMiddleware, professionalMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, customerMiddleware, professionalMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware, customerMiddleware)
		adminHttp.RegisterRoutes(v1, adminHandler, authMiddleware, adminMiddleware)
	}

	return r, nil
}
