package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"syncial/internal/betting"
	"syncial/internal/models"
	"syncial/internal/repository"
	"syncial/internal/service"
)

type PollHandler struct {
	Feed   *service.FeedService
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *PollHandler) Register(r *gin.Engine) {
	group := r.Group("/api/polls")
	group.POST("", h.createPoll)
	group.GET("", h.listPolls)
	group.GET("/:id", h.getPoll)
	group.GET("/:id/odds", h.getOdds)
	group.GET("/:id/payout", h.estimatePayout)
	r.GET("/api/categories", h.listCategories)
}

// @Summary Create a poll
// @Tags polls
// @Param body body service.CreatePollInput true "poll"
// @Success 200 {object} apiResponse
// @Router /api/polls [post]
func (h *PollHandler) createPoll(c *gin.Context) {
	var in service.CreatePollInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Feed.CreatePoll(c.Request.Context(), in)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("create poll failed", zap.Error(err))
		}
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary List polls
// @Tags polls
// @Param status query int false "status filter (0|1|2)"
// @Param category query string false "category filter, All for no filter"
// @Param sort_by query string false "created_at|total_pool|total_bets"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/polls [get]
func (h *PollHandler) listPolls(c *gin.Context) {
	params := repository.ListPollsParams{
		Status:   intQueryPtr(c, "status"),
		Category: strings.TrimSpace(c.Query("category")),
		SortBy:   strings.TrimSpace(c.Query("sort_by")),
		Limit:    intQuery(c, "limit", 20),
		Offset:   intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListPolls(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountPolls(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{
		"total":  total,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

// @Summary Get one poll by local or onchain id
// @Tags polls
// @Param id path string true "poll id"
// @Success 200 {object} apiResponse
// @Router /api/polls/{id} [get]
func (h *PollHandler) getPoll(c *gin.Context) {
	item, ok := h.lookupPoll(c)
	if !ok {
		return
	}
	Ok(c, item, nil)
}

// @Summary Current odds for a poll
// @Tags polls
// @Param id path string true "poll id"
// @Success 200 {object} apiResponse
// @Router /api/polls/{id}/odds [get]
func (h *PollHandler) getOdds(c *gin.Context) {
	item, ok := h.lookupPoll(c)
	if !ok {
		return
	}
	oddsA, oddsB := betting.Odds(item.PoolOptionA, item.PoolOptionB)
	Ok(c, gin.H{
		"poll_id": item.ID,
		"odds_a":  oddsA,
		"odds_b":  oddsB,
	}, nil)
}

// @Summary Estimate winnings for a candidate bet
// @Tags polls
// @Param id path string true "poll id"
// @Param amount query int true "bet amount in microcredits"
// @Param option query int true "1 for option A, 2 for option B"
// @Success 200 {object} apiResponse
// @Router /api/polls/{id}/payout [get]
func (h *PollHandler) estimatePayout(c *gin.Context) {
	item, ok := h.lookupPoll(c)
	if !ok {
		return
	}
	amount := int64Query(c, "amount", 0)
	if amount <= 0 {
		Error(c, http.StatusBadRequest, "amount must be positive", nil)
		return
	}
	option := intQuery(c, "option", 0)
	var optionPool int64
	switch option {
	case models.WinnerOptionA:
		optionPool = item.PoolOptionA
	case models.WinnerOptionB:
		optionPool = item.PoolOptionB
	default:
		Error(c, http.StatusBadRequest, "option must be 1 or 2", nil)
		return
	}
	payout := betting.EstimatedPayout(amount, optionPool+amount, item.TotalPool+amount)
	Ok(c, gin.H{
		"poll_id":          item.ID,
		"option":           option,
		"amount":           amount,
		"estimated_payout": payout,
	}, nil)
}

// @Summary List categories with rollup counts
// @Tags polls
// @Success 200 {object} apiResponse
// @Router /api/categories [get]
func (h *PollHandler) listCategories(c *gin.Context) {
	items, err := h.Repo.ListCategories(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *PollHandler) lookupPoll(c *gin.Context) (*models.Poll, bool) {
	item, err := h.Repo.GetPoll(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return nil, false
	}
	if item == nil {
		Error(c, http.StatusNotFound, "poll not found", nil)
		return nil, false
	}
	return item, true
}
