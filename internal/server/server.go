package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options tune the demo backend.
type Options struct {
	CORSOrigins []string
	Now         func() time.Time
}

// Server is the demo REST backend the client syncs against.
type Server struct {
	store  *storage.Store
	logger *zap.Logger
	now    func() time.Time
	router *gin.Engine
}

func New(store *storage.Store, logger *zap.Logger, opts Options) *Server {
	s := &Server{store: store, logger: logger, now: opts.Now}
	if s.now == nil {
		s.now = time.Now
	}
	s.router = s.setupRouter(opts.CORSOrigins)
	return s
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler { return s.router }

// Seed stores the default rooms when none exist yet.
func (s *Server) Seed(ctx context.Context) {
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		if len(l.Rooms) == 0 {
			l.ReplaceRooms(domain.DefaultRooms())
			s.logger.Info("Seeded default rooms", zap.Int("count", len(l.Rooms)))
		}
		return nil
	})
}

func (s *Server) setupRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", s.listRooms)
			// must stay before /:id
			rooms.PUT("/free-all", s.freeAllRooms)
			rooms.GET("/:id", s.getRoom)
			rooms.PUT("/:id/free", s.freeRoom)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", s.listBookings)
			bookings.POST("", s.createBooking)
			bookings.GET("/:id", s.getBooking)
			bookings.PUT("/:id/status", s.updateBookingStatus)
			bookings.PUT("/:id/payment", s.processPayment)
			bookings.DELETE("/:id", s.cancelBooking)
		}
	}
	return r
}
