package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/social-api/internal/api/metrics"
	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

// PostHandler serves /post.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /post/create/:id.
//
// @Summary      Create a post
// @Tags         post
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Author profile ID"
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      200   {object}  postEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /post/create/{id} [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	metrics.PostsCreatedTotal.Inc()

	return c.JSON(http.StatusOK, postEnvelope{Message: "Your post has been created", Success: true, Post: toPostResponse(p)})
}

// Update handles PUT /post/update/:id.
//
// @Summary      Update a post
// @Tags         post
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post ID"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /post/update/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), domain.PostPatch{Content: req.Content})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postEnvelope{Message: "Post updated successfully", Success: true, Post: toPostResponse(p)})
}

// Delete handles DELETE /post/delete/:id.
//
// @Summary      Delete a post
// @Tags         post
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postEnvelope
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /post/delete/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	p, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postEnvelope{Message: "Post deleted successfully", Success: true, Post: toPostResponse(p)})
}

// View handles GET /post/view/:id.
//
// @Summary      List the posts of a profile, newest first
// @Tags         post
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  postsEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /post/view/{id} [get]
func (h *PostHandler) View(c echo.Context) error {
	defer observe("profile", time.Now())

	items, err := h.service.ViewPosts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postsEnvelope{Message: "Here are your posts", Success: true, Posts: toFeedResponses(items)})
}

// Latest handles GET /post/latest-post/:id.
//
// @Summary      Newest post among the followed profiles
// @Tags         post
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  latestPostEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /post/latest-post/{id} [get]
func (h *PostHandler) Latest(c echo.Context) error {
	defer observe("latest", time.Now())

	item, err := h.service.LatestFollowed(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := latestPostEnvelope{Message: "Latest post from followed users", Success: true}
	if item != nil {
		r := toFeedItemResponse(item)
		resp.Post = &r
	}
	return c.JSON(http.StatusOK, resp)
}

// SocialFeed handles GET /post/social-feed/:id.
//
// @Summary      All posts by followed profiles, newest first
// @Tags         post
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  postsEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /post/social-feed/{id} [get]
func (h *PostHandler) SocialFeed(c echo.Context) error {
	defer observe("social", time.Now())

	items, err := h.service.SocialFeed(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postsEnvelope{Message: "Latest posts from users you follow", Success: true, Posts: toFeedResponses(items)})
}

func observe(feed string, start time.Time) {
	metrics.FeedDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
}
