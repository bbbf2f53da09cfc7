package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/alnabramov-cyber/telegram-bot/config"
	"github.com/alnabramov-cyber/telegram-bot/internal/mw"
	"github.com/alnabramov-cyber/telegram-bot/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, loc *time.Location) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, loc, cfg.OverlapWindowDays)

	r.GET("/healthz", handler.Health)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/overlaps", caching, handler.GetOverlaps)
		api.GET("/availability/:party", handler.GetAvailability)
		api.GET("/bookings", handler.GetBookings)
	}

	return r
}
