package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anshuman71/micros/internal/common"
	"github.com/Anshuman71/micros/internal/nutrition"
)

// ListNutrients serves the static reference dataset the browser UI
// renders, optionally filtered by category (vitamin or mineral).
func (h *Handler) ListNutrients(c *gin.Context) {
	category := c.Query("category")

	nutrients, err := nutrition.ByCategory(category)
	if err != nil {
		h.Log.Error("nutrient dataset unavailable", "error", err)
		common.Fail(c, http.StatusInternalServerError, "Internal server error", "Failed to load nutrient data")
		return
	}

	common.OK(c, gin.H{"nutrients": nutrients})
}
