package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/social-api/internal/api/metrics"
	"github.com/socialnet/social-api/internal/core/ports"
)

// FollowHandler serves /following. The acting profile is always the one
// owned by the authenticated user.
type FollowHandler struct {
	service ports.FollowService
}

func NewFollowHandler(service ports.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow handles POST /following/follow/:userId.
//
// @Summary      Follow a profile
// @Tags         following
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Target profile public ID"
// @Success      200     {object}  messageEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Router       /following/follow/{userId} [post]
func (h *FollowHandler) Follow(c echo.Context) error {
	actor, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Follow(c.Request().Context(), actor, c.Param("userId")); err != nil {
		return err
	}
	metrics.FollowsTotal.WithLabelValues("follow").Inc()

	return c.JSON(http.StatusOK, messageEnvelope{Message: "You are now following the user", Success: true})
}

// Unfollow handles POST /following/unfollow/:userId.
//
// @Summary      Unfollow a profile
// @Tags         following
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Target profile public ID"
// @Success      200     {object}  messageEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Router       /following/unfollow/{userId} [post]
func (h *FollowHandler) Unfollow(c echo.Context) error {
	actor, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Unfollow(c.Request().Context(), actor, c.Param("userId")); err != nil {
		return err
	}
	metrics.FollowsTotal.WithLabelValues("unfollow").Inc()

	return c.JSON(http.StatusOK, messageEnvelope{Message: "You have unfollowed the user", Success: true})
}

// Followers handles GET /following/get-followers/:userId.
//
// @Summary      List the followers of a profile
// @Tags         following
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Profile public ID"
// @Success      200     {object}  followersEnvelope
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /following/get-followers/{userId} [get]
func (h *FollowHandler) Followers(c echo.Context) error {
	list, err := h.service.Followers(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followersEnvelope{
		Message:   "Followers retrieved successfully",
		Success:   true,
		Followers: toSummaryResponses(list),
	})
}

// Following handles GET /following/get-following/:userId.
//
// @Summary      List the profiles a profile follows
// @Tags         following
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Profile public ID"
// @Success      200     {object}  followingEnvelope
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /following/get-following/{userId} [get]
func (h *FollowHandler) Following(c echo.Context) error {
	list, err := h.service.Following(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followingEnvelope{
		Message:   "Following retrieved successfully",
		Success:   true,
		Following: toSummaryResponses(list),
	})
}
