package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/home-services-backend/internal/admin"
	"github.com/nekogravitycat/home-services-backend/internal/api"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	"github.com/nekogravitycat/home-services-backend/internal/notification"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/storage"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
	"github.com/nekogravitycat/home-services-backend/internal/review"
	"github.com/nekogravitycat/home-services-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       logrus.FieldLogger

	// Redis enables the catalog cache when non-nil.
	Redis           *redis.Client
	CatalogCacheTTL time.Duration

	Notifier notification.Notifier
	Storage  storage.Storage
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Catalog Module
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	catalogService := catalog.NewService(catalogRepo, cfg.Storage, cfg.Logger)
	if cfg.Redis != nil {
		catalogService = catalog.NewCachedService(catalogService, cfg.Redis, cfg.CatalogCacheTTL, cfg.Logger)
	}

	// Booking repository is shared by the professional earnings summary and analytics.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Professional Module
	professionalRepo := professional.NewPgxRepository(cfg.DBPool)
	professionalService := professional.NewService(professionalRepo, catalogService, bookingRepo)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, cfg.Logger)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, catalogService, professionalService, userService, cfg.Notifier, cfg.Logger)

	// Review Module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, bookingRepo)

	// Admin Module
	adminService := admin.NewService(userService, bookingRepo, catalogService)

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              cfg.Logger,
		UserService:         userService,
		CatalogService:      catalogService,
		ProfessionalService: professionalService,
		BookingService:      bookingService,
		ReviewService:       reviewService,
		AdminService:        adminService,
		JWTManager:          jwtManager,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
