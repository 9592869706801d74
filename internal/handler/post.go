package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"syncial/internal/repository"
	"syncial/internal/service"
)

type PostHandler struct {
	Feed   *service.FeedService
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *PostHandler) Register(r *gin.Engine) {
	group := r.Group("/api/posts")
	group.POST("", h.createPost)
	group.GET("", h.listPosts)
	group.GET("/:id", h.getPost)
	group.POST("/:id/like", h.likePost)
	group.POST("/:id/comments", h.addComment)
	group.GET("/:id/comments", h.listComments)
}

// @Summary Create a feed post
// @Tags posts
// @Param body body service.CreatePostInput true "post"
// @Success 200 {object} apiResponse
// @Router /api/posts [post]
func (h *PostHandler) createPost(c *gin.Context) {
	var in service.CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Feed.CreatePost(c.Request.Context(), in)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("create post failed", zap.Error(err))
		}
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary List posts, newest first
// @Tags posts
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/posts [get]
func (h *PostHandler) listPosts(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)
	items, err := h.Repo.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "offset": offset})
}

// @Summary Get one post by local or onchain id
// @Tags posts
// @Param id path string true "post id"
// @Success 200 {object} apiResponse
// @Router /api/posts/{id} [get]
func (h *PostHandler) getPost(c *gin.Context) {
	item, err := h.Repo.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "post not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Like a post
// @Tags posts
// @Param id path string true "post id"
// @Success 200 {object} apiResponse
// @Router /api/posts/{id}/like [post]
// Likes are a plain counter: no per-user dedup, no unlike. Callers that
// need idempotence must dedup on their side.
func (h *PostHandler) likePost(c *gin.Context) {
	err := h.Repo.LikePost(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, "post not found", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"liked": true}, nil)
}

// @Summary Add a comment to a post
// @Tags posts
// @Param id path string true "post id"
// @Param body body service.AddCommentInput true "comment"
// @Success 200 {object} apiResponse
// @Router /api/posts/{id}/comments [post]
func (h *PostHandler) addComment(c *gin.Context) {
	var in service.AddCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Feed.AddComment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary List a post's comments, oldest first
// @Tags posts
// @Param id path string true "post id"
// @Success 200 {object} apiResponse
// @Router /api/posts/{id}/comments [get]
func (h *PostHandler) listComments(c *gin.Context) {
	items, err := h.Repo.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
