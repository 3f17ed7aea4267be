package api

import (
	"net/http"

	"gymtrack/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	cleanupService service.CleanupService
}

func NewAdminHandler(cleanupService service.CleanupService) *AdminHandler {
	return &AdminHandler{cleanupService: cleanupService}
}

// RunStorageCleanup sweeps orphaned image blobs and reports the counters.
func (h *AdminHandler) RunStorageCleanup(c *gin.Context) {
	result, err := h.cleanupService.DeleteOrphanedImages(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Storage cleanup failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
