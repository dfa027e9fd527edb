package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/recap"
)

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func query(c *gin.Context) listing.Query {
	q := listing.Query{
		Tickers: c.Query("tickers"),
		Page:    c.Query("page"),
	}
	if ids := c.Query("service_ids"); strings.TrimSpace(ids) != "" {
		q.ServiceIDs = strings.Split(ids, ",")
	}
	return q
}

// listArticles returns one page of the filtered listing
// GET /api/v1/articles?tickers=AAPL,fb&service_ids=1,3&page=2
func (r *Router) listArticles(c *gin.Context) {
	view, err := r.listing.View(c.Request.Context(), query(c))
	if err != nil {
		r.handleError(c, err, "list articles")
		return
	}
	c.JSON(http.StatusOK, view)
}

// getSummary aggregates the filtered selection
// GET /api/v1/summary?tickers=&service_ids=&since=7d
func (r *Router) getSummary(c *gin.Context) {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		d, err := config.ParseDuration(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		since = r.now().Add(-d)
	}

	summary, err := r.listing.Summary(c.Request.Context(), query(c), since, time.Time{})
	if err != nil {
		r.handleError(c, err, "summarize articles")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getRecap renders the daily recap, defaulting to yesterday
// GET /api/v1/recap?date=2015-05-12
func (r *Router) getRecap(c *gin.Context) {
	day := recap.Yesterday(r.now(), r.recaps.Location())
	if raw := c.Query("date"); raw != "" {
		d, err := recap.ParseDate(raw, r.recaps.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		day = d
	}

	rc, err := r.recaps.Build(c.Request.Context(), day)
	if err != nil {
		r.handleError(c, err, "build recap")
		return
	}
	c.JSON(http.StatusOK, rc)
}

// GET /api/v1/services
func (r *Router) listServices(c *gin.Context) {
	services, err := r.listing.Selector().Services(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "list services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services, "count": len(services)})
}

func (r *Router) handleError(c *gin.Context, err error, operation string) {
	if errors.Is(err, filter.ErrInvalidFilterInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.log.Error("request failed", logger.String("operation", operation), logger.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + operation})
}
