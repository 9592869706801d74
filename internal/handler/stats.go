package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"syncial/internal/repository"
)

// Microcredits per credit; used only for display conversion.
var creditUnit = decimal.NewFromInt(1_000_000)

type StatsHandler struct {
	Repo repository.Repository
}

func (h *StatsHandler) Register(r *gin.Engine) {
	r.GET("/api/stats", h.stats)
}

// @Summary Aggregate store statistics
// @Tags stats
// @Success 200 {object} apiResponse
// @Router /api/stats [get]
func (h *StatsHandler) stats(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	volumeCredits := decimal.NewFromInt(stats.TotalVolume).DivRound(creditUnit, 6)
	Ok(c, stats, map[string]any{
		"total_volume_credits": volumeCredits.String(),
	})
}
