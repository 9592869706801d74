package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"syncial/internal/repository"
	"syncial/internal/service"
)

type SyncHandler struct {
	Service *service.LedgerSyncService
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *SyncHandler) Register(r *gin.Engine) {
	r.POST("/api/sync", h.syncAll)
	r.POST("/api/sync/polls/:id", h.syncPoll)
	r.POST("/api/sync/users/:hash", h.syncUser)
	r.GET("/api/sync-state", h.listSyncState)
}

// @Summary Run one full reconciliation pass
// @Tags sync
// @Success 200 {object} apiResponse
// @Router /api/sync [post]
func (h *SyncHandler) syncAll(c *gin.Context) {
	result, err := h.Service.SyncPolls(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("manual poll sync failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Re-sync one poll's ledger state
// @Tags sync
// @Param id path string true "onchain poll id"
// @Success 200 {object} apiResponse
// @Router /api/sync/polls/{id} [post]
func (h *SyncHandler) syncPoll(c *gin.Context) {
	if err := h.Service.SyncPoll(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"synced": true}, nil)
}

// @Summary Re-sync one user's reputation mappings
// @Tags sync
// @Param hash path string true "user hash"
// @Success 200 {object} apiResponse
// @Router /api/sync/users/{hash} [post]
func (h *SyncHandler) syncUser(c *gin.Context) {
	if err := h.Service.SyncUserReputation(c.Request.Context(), c.Param("hash")); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"synced": true}, nil)
}

// @Summary List per-scope sync bookkeeping
// @Tags sync
// @Success 200 {object} apiResponse
// @Router /api/sync-state [get]
func (h *SyncHandler) listSyncState(c *gin.Context) {
	states, err := h.Repo.ListSyncStates(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, states, nil)
}
