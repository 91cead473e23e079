package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shareloop/shareloop-backend/internal/api"
	"github.com/shareloop/shareloop-backend/internal/auth"
	"github.com/shareloop/shareloop-backend/internal/booking"
	"github.com/shareloop/shareloop-backend/internal/clock"
	"github.com/shareloop/shareloop-backend/internal/events"
	"github.com/shareloop/shareloop-backend/internal/item"
	"github.com/shareloop/shareloop-backend/internal/photo"
	"github.com/shareloop/shareloop-backend/internal/pkg/storage"
	"github.com/shareloop/shareloop-backend/internal/request"
	"github.com/shareloop/shareloop-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	DBPool *pgxpool.Pool

	// Optional: nil disables the item snapshot cache.
	RedisClient  *redis.Client
	ItemCacheTTL time.Duration

	// Optional: no brokers disables booking event publishing.
	KafkaBrokers []string
	KafkaTopic   string

	PhotoDir string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	eventSink *events.KafkaSink
}

// userSource adapts the user service to the booker lookup the booking
// lifecycle needs.
type userSource struct {
	users user.Service
}

func (s userSource) Ref(ctx context.Context, userID string) (booking.UserRef, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return booking.UserRef{}, err
	}
	return booking.UserRef{ID: u.ID, Name: u.Name}, nil
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	clk := clock.System{}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Item module. The cache is a read-through over single item lookups.
	var itemCache item.Cache = item.NoopCache{}
	if cfg.RedisClient != nil {
		itemCache = item.NewRedisCache(cfg.RedisClient, cfg.ItemCacheTTL)
	}
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, bookingRepo, itemCache, clk)

	// Booking module. The item service doubles as the snapshot source; the
	// Kafka sink is optional.
	var sink *events.KafkaSink
	var eventSink booking.EventSink
	if len(cfg.KafkaBrokers) > 0 {
		sink = events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		eventSink = sink
	}
	bookingService := booking.NewService(bookingRepo, itemService, userSource{users: userService}, clk, eventSink)

	// Request module
	requestRepo := request.NewPgxRepository(cfg.DBPool)
	requestService := request.NewService(requestRepo, itemRepo)

	// Photo module
	blobs, err := storage.NewDisk(cfg.PhotoDir)
	if err != nil {
		return nil, err
	}
	photoRepo := photo.NewPgxRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, itemRepo, blobs, clk)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		RequestService: requestService,
		PhotoService:   photoService,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		eventSink:  sink,
	}, nil
}

// Close releases resources the container owns.
func (c *Container) Close() error {
	if c.eventSink != nil {
		return c.eventSink.Close()
	}
	return nil
}
