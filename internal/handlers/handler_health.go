package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the unauthenticated liveness probe.
func RegisterHealthRoutes(r gin.IRoutes, service string) {
	r.GET("/health", func(c *gin.Context) {
		getHealth(c, service)
	})
}

// getHealth godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func getHealth(c *gin.Context, service string) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "service": service})
}
