// README: Read-only provider listing for the nearby-fleet panel.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guincho/internal/modules/fleet"
)

type FleetHandler struct {
	directory fleet.Directory
}

func NewFleetHandler(directory fleet.Directory) *FleetHandler {
	return &FleetHandler{directory: directory}
}

func (h *FleetHandler) ListAvailable(c *gin.Context) {
	providers := h.directory.ListAvailable(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}
