package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"syncial/internal/repository"
)

type ReputationHandler struct {
	Repo repository.Repository
}

func (h *ReputationHandler) Register(r *gin.Engine) {
	r.GET("/api/reputation/:hash", h.getReputation)
	r.GET("/api/leaderboard", h.leaderboard)
}

// @Summary Get a user's public reputation record
// @Tags reputation
// @Param hash path string true "user hash"
// @Success 200 {object} apiResponse
// @Router /api/reputation/{hash} [get]
func (h *ReputationHandler) getReputation(c *gin.Context) {
	item, err := h.Repo.GetReputation(c.Request.Context(), c.Param("hash"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "reputation not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Leaderboard of users with prediction history
// @Tags reputation
// @Param limit query int false "limit"
// @Success 200 {object} apiResponse
// @Router /api/leaderboard [get]
func (h *ReputationHandler) leaderboard(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	items, err := h.Repo.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
