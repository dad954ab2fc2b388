package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Pulse/internal/auth"
	dom "Pulse/internal/domain"
	"Pulse/internal/dto"
	"Pulse/internal/service"

	"github.com/gin-gonic/gin"
)

// PostHandler handles the post feed, CRUD and like mutations.
type PostHandler struct {
	svc *service.PostService
}

// NewPostHandler returns a new PostHandler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreatePostRequest  true  "Post body"
// @Success      201   {object}  dto.PostResponse
// @Failure      400   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	p, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTitle) || errors.Is(err, service.ErrInvalidContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, postToResponse(p))
}

// List godoc
// @Summary      List all posts, newest first
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListPostsResponse
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	list, err := h.svc.Feed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, dto.ListPostsResponse{Items: postsToResponses(list)})
}

// Update godoc
// @Summary      Update own post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Post ID"
// @Param        body  body      dto.UpdatePostRequest  true  "Partial update"
// @Success      200   {object}  dto.PostResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /posts/{id} [patch]
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	p, err := h.svc.Update(c.Request.Context(), userID, id, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrInvalidTitle), errors.Is(err, service.ErrInvalidContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update post"})
		}
		return
	}
	c.JSON(http.StatusOK, postToResponse(p))
}

// Delete godoc
// @Summary      Delete own post
// @Tags         posts
// @Security     CookieAuth
// @Param        id  path  int  true  "Post ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Like godoc
// @Summary      Like or unlike a post
// @Description  Applies an atomic counter mutation; unlike never drops the counter below zero. Returns the updated post from the same mutation.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Post ID"
// @Param        body  body      dto.LikeRequest  true  "Action: like or unlike"
// @Success      200   {object}  dto.LikeResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) Like(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.MutateLikeCount(c.Request.Context(), id, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrInvalidDirection):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update like count"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.LikeResponse{OK: true, Post: postToResponse(p)})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func postToResponse(p dom.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		LikeCount:  p.LikeCount,
		CreatedAt:  p.CreatedAt,
	}
}

func postsToResponses(list []dom.Post) []dto.PostResponse {
	out := make([]dto.PostResponse, len(list))
	for i := range list {
		out[i] = postToResponse(list[i])
	}
	return out
}
