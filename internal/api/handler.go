package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/model"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
	"github.com/alnabramov-cyber/telegram-bot/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	loc        *time.Location
	windowDays int
}

// NewHandler creates a new API handler. windowDays bounds how far ahead
// the overlaps endpoint reports; zero disables the window.
func NewHandler(s store.Store, loc *time.Location, windowDays int) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{store: s, loc: loc, windowDays: windowDays}
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetOverlaps handles GET /api/overlaps: the dates and sub-intervals
// where both parties declared themselves free, canonical strings only.
func (h *Handler) GetOverlaps(c *gin.Context) {
	overlaps := h.store.Overlaps(c.Request.Context())
	if h.windowDays > 0 {
		overlaps = windowed(overlaps, time.Now().In(h.loc), h.windowDays)
	}
	c.JSON(http.StatusOK, renderSlots(overlaps))
}

// GetAvailability handles GET /api/availability/:party.
func (h *Handler) GetAvailability(c *gin.Context) {
	party := store.Party(c.Param("party"))
	if party != store.PartyAdmin && party != store.PartyUser {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown party"})
		return
	}

	snap := h.store.Load(c.Request.Context())
	c.JSON(http.StatusOK, renderSlots(snap[party]))
}

// GetBookings handles GET /api/bookings with an optional date filter.
func (h *Handler) GetBookings(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
	}

	bookings, err := h.store.Bookings(c.Request.Context(), date)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// windowed keeps only dates in [today, today+days).
func windowed(slots overlap.DaySlots, now time.Time, days int) overlap.DaySlots {
	from := now.Format("2006-01-02")
	until := now.AddDate(0, 0, days).Format("2006-01-02")

	out := make(overlap.DaySlots)
	for date, ivs := range slots {
		if date >= from && date < until {
			out[date] = ivs
		}
	}
	return out
}

func renderSlots(slots overlap.DaySlots) map[string][]string {
	out := make(map[string][]string, len(slots))
	for date, ivs := range slots {
		out[date] = interval.Render(ivs)
	}
	return out
}
