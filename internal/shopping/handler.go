package shopping

import (
	"net/http"

	"foodgram/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	exporter *Exporter
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// --------------------------------------------------
// Download shopping cart as PDF
// --------------------------------------------------
func (h *Handler) Download(c *gin.Context) {
	userID := auth.UserIDFrom(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filename, data, err := h.exporter.Export(c.Request.Context(), Owner{
		ID:       userID,
		Username: auth.UsernameFrom(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build shopping list"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
