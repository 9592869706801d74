package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syncial/internal/client/aleo"
	"syncial/internal/repository"
)

type HealthHandler struct {
	DB       *gorm.DB
	Repo     repository.Repository
	Aleo     *aleo.Client
	Programs []string
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Health check with store stats and program deployment status
// @Tags health
// @Success 200 {object} map[string]any
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	out := gin.H{
		"status":    "ok",
		"service":   "syncial-indexer",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.Repo != nil {
		if stats, err := h.Repo.Stats(c.Request.Context()); err == nil {
			out["stats"] = stats
		}
	}
	if h.Aleo != nil && len(h.Programs) > 0 {
		deployments := make(map[string]bool, len(h.Programs))
		for _, program := range h.Programs {
			deployments[program] = h.Aleo.ProgramDeployed(c.Request.Context(), program)
		}
		out["deployments"] = deployments
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_missing"})
		return
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
