package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(ctrl *StoryboardController) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterStoryboardRoutes(r, ctrl)
	RegisterHealthRoutes(r)
	return r
}
