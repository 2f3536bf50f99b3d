package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/social-api/internal/api/middleware"
	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubProfileService struct {
	createFn func(ctx context.Context, userID string, in ports.CreateProfileInput) (*domain.Profile, error)
	updateFn func(ctx context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error)
	deleteFn func(ctx context.Context, publicID string) (*domain.Profile, error)
	viewFn   func(ctx context.Context, publicID string) (*domain.ProfileView, error)
}

func (s *stubProfileService) Create(ctx context.Context, userID string, in ports.CreateProfileInput) (*domain.Profile, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubProfileService) Update(ctx context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	return s.updateFn(ctx, publicID, patch)
}

func (s *stubProfileService) Delete(ctx context.Context, publicID string) (*domain.Profile, error) {
	return s.deleteFn(ctx, publicID)
}

func (s *stubProfileService) View(ctx context.Context, publicID string) (*domain.ProfileView, error) {
	return s.viewFn(ctx, publicID)
}

type stubFollowService struct {
	followFn    func(ctx context.Context, actorUserID, targetPublicID string) error
	unfollowFn  func(ctx context.Context, actorUserID, targetPublicID string) error
	followersFn func(ctx context.Context, publicID string) ([]domain.ProfileSummary, error)
	followingFn func(ctx context.Context, publicID string) ([]domain.ProfileSummary, error)
}

func (s *stubFollowService) Follow(ctx context.Context, actorUserID, targetPublicID string) error {
	return s.followFn(ctx, actorUserID, targetPublicID)
}

func (s *stubFollowService) Unfollow(ctx context.Context, actorUserID, targetPublicID string) error {
	return s.unfollowFn(ctx, actorUserID, targetPublicID)
}

func (s *stubFollowService) Followers(ctx context.Context, publicID string) ([]domain.ProfileSummary, error) {
	return s.followersFn(ctx, publicID)
}

func (s *stubFollowService) Following(ctx context.Context, publicID string) ([]domain.ProfileSummary, error) {
	return s.followingFn(ctx, publicID)
}

type stubPostService struct {
	createFn func(ctx context.Context, profileID, content string) (*domain.Post, error)
	updateFn func(ctx context.Context, postID string, patch domain.PostPatch) (*domain.Post, error)
	deleteFn func(ctx context.Context, postID string) (*domain.Post, error)
	viewFn   func(ctx context.Context, profileID string) ([]*domain.FeedItem, error)
	latestFn func(ctx context.Context, profileID string) (*domain.FeedItem, error)
	feedFn   func(ctx context.Context, profileID string) ([]*domain.FeedItem, error)
}

func (s *stubPostService) Create(ctx context.Context, profileID, content string) (*domain.Post, error) {
	return s.createFn(ctx, profileID, content)
}

func (s *stubPostService) Update(ctx context.Context, postID string, patch domain.PostPatch) (*domain.Post, error) {
	return s.updateFn(ctx, postID, patch)
}

func (s *stubPostService) Delete(ctx context.Context, postID string) (*domain.Post, error) {
	return s.deleteFn(ctx, postID)
}

func (s *stubPostService) ViewPosts(ctx context.Context, profileID string) ([]*domain.FeedItem, error) {
	return s.viewFn(ctx, profileID)
}

func (s *stubPostService) LatestFollowed(ctx context.Context, profileID string) (*domain.FeedItem, error) {
	return s.latestFn(ctx, profileID)
}

func (s *stubPostService) SocialFeed(ctx context.Context, profileID string) ([]*domain.FeedItem, error) {
	return s.feedFn(ctx, profileID)
}

// request describes one handler invocation.
type request struct {
	method string
	body   string
	param  string
	value  string
	userID string
}

func newContext(r request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if r.body != "" {
		req = httptest.NewRequest(r.method, "/", strings.NewReader(r.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(r.method, "/", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if r.param != "" {
		c.SetParamNames(r.param)
		c.SetParamValues(r.value)
	}
	if r.userID != "" {
		c.Set(middleware.UserIDKey, r.userID)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}
