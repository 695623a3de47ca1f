package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HomeResponse identifies the running API.
type HomeResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// getHome godoc
// @Summary API identity
// @Tags root
// @Produce json
// @Success 200 {object} HomeResponse
// @Router / [get]
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, HomeResponse{Name: "Studio Ops Backend API", Version: "v1"})
}
