package handler

import "time"

// ErrorResponse is the envelope returned on every 4xx/5xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// --- Requests ---

type signUpRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createProfileRequest struct {
	Username       string `json:"username"        validate:"required,max=50"`
	Bio            string `json:"bio"             validate:"max=500"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

type updateProfileRequest struct {
	Username       *string `json:"username"        validate:"omitempty,min=1,max=50"`
	Bio            *string `json:"bio"             validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

type createPostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type updatePostRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1,max=5000"`
}

// --- Responses ---

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type profileResponse struct {
	ID             string    `json:"id"`
	PublicID       string    `json:"user_id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	Owner          string    `json:"owner"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ownerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type profileViewResponse struct {
	profileResponse
	User ownerResponse `json:"user"`
}

type profileSummaryResponse struct {
	ID             string `json:"id"`
	PublicID       string `json:"user_id"`
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}

type postResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type feedItemResponse struct {
	postResponse
	Author profileSummaryResponse `json:"author"`
}

type tokenData struct {
	Token string `json:"token"`
}

// --- Envelopes ---

type messageEnvelope struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type tokenEnvelope struct {
	Message string    `json:"message"`
	Success bool      `json:"success"`
	Data    tokenData `json:"data"`
}

type profileEnvelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Profile profileResponse `json:"profile"`
}

type profileViewEnvelope struct {
	Message string              `json:"message"`
	Success bool                `json:"success"`
	Profile profileViewResponse `json:"profile"`
}

type followersEnvelope struct {
	Message   string                   `json:"message"`
	Success   bool                     `json:"success"`
	Followers []profileSummaryResponse `json:"followers"`
}

type followingEnvelope struct {
	Message   string                   `json:"message"`
	Success   bool                     `json:"success"`
	Following []profileSummaryResponse `json:"following"`
}

type postEnvelope struct {
	Message string       `json:"message"`
	Success bool         `json:"success"`
	Post    postResponse `json:"post"`
}

type latestPostEnvelope struct {
	Message string            `json:"message"`
	Success bool              `json:"success"`
	Post    *feedItemResponse `json:"post"`
}

type postsEnvelope struct {
	Message string             `json:"message"`
	Success bool               `json:"success"`
	Posts   []feedItemResponse `json:"posts"`
}
