package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pheme-social/pheme-service/internal/domain"
	"github.com/pheme-social/pheme-service/internal/middleware"
	"github.com/pheme-social/pheme-service/internal/repository"
	"github.com/pheme-social/pheme-service/internal/service"
	pkglog "github.com/pheme-social/pheme-service/pkg/log"
	"github.com/pheme-social/pheme-service/pkg/response"
)

// Handler handles HTTP requests for the pheme service.
type Handler struct {
	phemes         service.PhemeService
	graph          service.SocialGraphService
	directory      service.DirectoryService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	phemes service.PhemeService,
	graph service.SocialGraphService,
	directory service.DirectoryService,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		phemes:         phemes,
		graph:          graph,
		directory:      directory,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// A request with the wrong verb on a known path is a 405, not a 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c, "method not allowed")
	})

	api := r.Group("/api/v1")
	{
		pheme := api.Group("/pheme", h.authMiddleware.RequireAuth())
		{
			pheme.GET("", h.Feed)
			pheme.POST("", h.CreatePheme)
			pheme.GET("/mine", h.ListMine)
			pheme.GET("/user/:id", h.ListUserPhemes)
			pheme.GET("/:id", h.GetPheme)
			pheme.PUT("/:id", h.UpdatePheme)
			pheme.DELETE("/:id", h.DeletePheme)
		}

		user := api.Group("/user")
		{
			user.GET("/:query", h.authMiddleware.OptionalAuth(), h.SearchUsers)
			user.GET("/id/:id", h.authMiddleware.OptionalAuth(), h.GetUser)
			user.GET("/friend", h.authMiddleware.RequireAuth(), h.ListFriends)
			user.GET("/follower/:id", h.authMiddleware.OptionalAuth(), h.ListFollowers)
			user.PUT("/friend/:id", h.authMiddleware.RequireAuth(), h.AddFriend)
			user.DELETE("/friend/:id", h.authMiddleware.RequireAuth(), h.RemoveFriend)
			user.PUT("/follower/:id", h.authMiddleware.RequireAuth(), h.AddFollower)
			user.DELETE("/follower/:id", h.authMiddleware.RequireAuth(), h.RemoveFollower)
		}
	}
}

// caller returns the authenticated identity set by RequireAuth.
func caller(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "unauthenticated")
		return 0, false
	}
	return id.ID, true
}

// idParam parses a numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "wrong parameters")
		return 0, false
	}
	return uint(id), true
}

// writeError maps service errors onto the response contract.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, "wrong parameters")
	case errors.Is(err, service.ErrNotFoundOrForbidden):
		response.BadRequest(c, "pheme not available")
	case errors.Is(err, service.ErrInvalidTarget):
		response.BadRequest(c, "invalid target user")
	case errors.Is(err, repository.ErrUserNotFound):
		response.BadRequest(c, "user not found")
	default:
		l := pkglog.Ctx(c.Request.Context())
		l.Error().Err(err).
			Str(pkglog.FieldPath, c.FullPath()).
			Msg("request failed")
		response.InternalError(c, "internal error")
	}
}

// Feed handles GET /api/v1/pheme.
func (h *Handler) Feed(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	phemes, err := h.phemes.Feed(c.Request.Context(), callerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, phemes)
}

// CreatePheme handles POST /api/v1/pheme.
func (h *Handler) CreatePheme(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	var req domain.PhemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "wrong parameters")
		return
	}

	pheme, err := h.phemes.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, pheme)
}

// ListMine handles GET /api/v1/pheme/mine.
func (h *Handler) ListMine(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	phemes, err := h.phemes.ListMine(c.Request.Context(), callerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, phemes)
}

// ListUserPhemes handles GET /api/v1/pheme/user/:id.
func (h *Handler) ListUserPhemes(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	phemes, err := h.phemes.ListUser(c.Request.Context(), callerID, targetID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, phemes)
}

// GetPheme handles GET /api/v1/pheme/:id.
func (h *Handler) GetPheme(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}
	phemeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	pheme, err := h.phemes.Get(c.Request.Context(), callerID, phemeID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, pheme)
}

// UpdatePheme handles PUT /api/v1/pheme/:id.
func (h *Handler) UpdatePheme(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}
	phemeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req domain.PhemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "wrong parameters")
		return
	}

	pheme, err := h.phemes.Update(c.Request.Context(), callerID, phemeID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, pheme)
}

// DeletePheme handles DELETE /api/v1/pheme/:id. The deleted pheme is echoed
// back in the response.
func (h *Handler) DeletePheme(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}
	phemeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	pheme, err := h.phemes.Delete(c.Request.Context(), callerID, phemeID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, pheme)
}

// SearchUsers handles GET /api/v1/user/:query.
func (h *Handler) SearchUsers(c *gin.Context) {
	query := c.Param("query")

	users, err := h.directory.SearchByNamePrefix(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, users)
}

// GetUser handles GET /api/v1/user/id/:id.
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.directory.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, user)
}

// ListFriends handles GET /api/v1/user/friend.
func (h *Handler) ListFriends(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	ids, err := h.directory.Friends(c.Request.Context(), callerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	summaries, err := h.resolveSummaries(c.Request.Context(), ids)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, summaries)
}

// ListFollowers handles GET /api/v1/user/follower/:id.
func (h *Handler) ListFollowers(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	ids, err := h.directory.Followers(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	summaries, err := h.resolveSummaries(c.Request.Context(), ids)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, summaries)
}

// resolveSummaries expands graph edge IDs into directory summaries. Edges
// whose user vanished mid-request are skipped rather than failing the whole
// listing.
func (h *Handler) resolveSummaries(ctx context.Context, ids []uint) ([]domain.UserSummary, error) {
	summaries := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		user, err := h.directory.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, user.Summary())
	}
	return summaries, nil
}

// AddFriend handles PUT /api/v1/user/friend/:id.
func (h *Handler) AddFriend(c *gin.Context) {
	h.graphMutation(c, h.graph.AddFriend)
}

// RemoveFriend handles DELETE /api/v1/user/friend/:id.
func (h *Handler) RemoveFriend(c *gin.Context) {
	h.graphMutation(c, h.graph.RemoveFriend)
}

// AddFollower handles PUT /api/v1/user/follower/:id.
func (h *Handler) AddFollower(c *gin.Context) {
	h.graphMutation(c, h.graph.AddFollower)
}

// RemoveFollower handles DELETE /api/v1/user/follower/:id.
func (h *Handler) RemoveFollower(c *gin.Context) {
	h.graphMutation(c, h.graph.RemoveFollower)
}

func (h *Handler) graphMutation(c *gin.Context, op func(ctx context.Context, selfID, targetID uint) error) {
	callerID, ok := caller(c)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := op(c.Request.Context(), callerID, targetID); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, response.Message{Message: "success"})
}
