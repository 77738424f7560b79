package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/namefreezers/weatherwise/internal/weather"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	// StaticDir, when set, is served for every path outside /api.
	StaticDir string
}

// NewRouter builds the Gin engine serving the weather API.
func NewRouter(lookup weather.Lookup, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), CORS(opts.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/weather", WeatherHandler(lookup, logger))
	}

	if opts.StaticDir != "" {
		files := http.FileServer(http.Dir(opts.StaticDir))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Status(http.StatusNotFound)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}

	return router
}
