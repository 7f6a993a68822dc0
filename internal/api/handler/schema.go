package handler

import (
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// successResponse wraps every 2xx payload.
type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(message string, data any) successResponse {
	return successResponse{Status: "success", Message: message, Data: data}
}

// --- Auth ---

// Presence and uniqueness rules live in the services; tags here only bound
// sizes. The password byte limit bcrypt imposes is checked by the service.
type registerRequest struct {
	Username string `json:"username" validate:"max=50"`
	Email    string `json:"email"    validate:"max=254"`
	Password string `json:"password" validate:"max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         *userResponse `json:"user"`
}

type userEnvelope struct {
	User *userResponse `json:"user"`
}

func toUserResponse(u *domain.User) *userResponse {
	return &userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		AccessToken:  r.Tokens.AccessToken,
		RefreshToken: r.Tokens.RefreshToken,
		User:         toUserResponse(r.User),
	}
}

// --- Blogs ---

type blogRequest struct {
	Title   string `json:"title"   validate:"max=200"`
	Content string `json:"content" validate:"max=10000"`
}

type pageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type blogResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Author    authorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type blogPageResponse struct {
	Blogs       []blogResponse `json:"blogs"`
	HasMore     bool           `json:"hasMore"`
	Total       int64          `json:"total"`
	CurrentPage int            `json:"currentPage"`
	Limit       int            `json:"limit"`
}

func toBlogResponse(b *domain.Blog) blogResponse {
	return blogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Author:    authorResponse{ID: b.AuthorID, Username: b.AuthorUsername},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBlogPageResponse(p *ports.BlogPage) blogPageResponse {
	blogs := make([]blogResponse, 0, len(p.Blogs))
	for _, b := range p.Blogs {
		blogs = append(blogs, toBlogResponse(b))
	}
	return blogPageResponse{
		Blogs:       blogs,
		HasMore:     p.HasMore,
		Total:       p.Total,
		CurrentPage: p.CurrentPage,
		Limit:       p.Limit,
	}
}
