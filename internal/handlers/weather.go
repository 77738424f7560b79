package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/weather"
)

// weatherRequest defines the query parameter for GET /api/weather.
// It is not marked required: a missing city is reported in-band.
type weatherRequest struct {
	City string `form:"city"`
}

// WeatherHandler returns a Gin handler for GET /api/weather.
//
// Every domain outcome is HTTP 200. Failures are reported as {"error": "..."}
// and callers must inspect the body rather than the status code.
func WeatherHandler(lookup weather.Lookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req weatherRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}

		env, err := lookup.Lookup(c.Request.Context(), req.City)
		if err != nil {
			var upErr *weather.UpstreamError
			switch {
			case errors.Is(err, weather.ErrCityRequired), errors.Is(err, weather.ErrCityNotFound):
				logger.Debug("weather lookup rejected", zap.String("city", req.City), zap.Error(err))
			case errors.As(err, &upErr):
				logger.Warn("upstream call failed",
					zap.String("city", req.City),
					zap.String("op", upErr.Op),
					zap.Error(err),
				)
			default:
				logger.Error("weather lookup failed", zap.String("city", req.City), zap.Error(err))
			}
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, env)
	}
}
