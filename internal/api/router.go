package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/booking"
	bookingHttp "github.com/shareloop/shareloop-backend/internal/booking/http"
	"github.com/shareloop/shareloop-backend/internal/item"
	itemHttp "github.com/shareloop/shareloop-backend/internal/item/http"
	"github.com/shareloop/shareloop-backend/internal/photo"
	photoHttp "github.com/shareloop/shareloop-backend/internal/photo/http"
	"github.com/shareloop/shareloop-backend/internal/pkg/logging"
	"github.com/shareloop/shareloop-backend/internal/request"
	requestHttp "github.com/shareloop/shareloop-backend/internal/request/http"
	"github.com/shareloop/shareloop-backend/internal/user"
	userHttp "github.com/shareloop/shareloop-backend/internal/user/http"
)

// Config bundles everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	RequestService request.Service
	PhotoService   photo.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware and registers every module's routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logging.Middleware(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.Required(cfg.JWTManager)

	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)

		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		itemHttp.RegisterRoutes(v1, itemHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		requestHttp.RegisterRoutes(v1, requestHandler, authMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware)
	}

	return r
}
