package http

import (
	"github.com/nekogravitycat/signup-site/internal/apiclient"
	"github.com/nekogravitycat/signup-site/internal/pkg/response"
	"github.com/nekogravitycat/signup-site/internal/userlist"
)

// UserResponse is the shape of a user card in API responses.
type UserResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	Photo    string `json:"photo"`
}

// ListResponse is the accumulated list plus its loading state.
type ListResponse struct {
	response.PageResponse[UserResponse]
	Loading bool   `json:"loading"`
	Empty   bool   `json:"empty"`
	Error   string `json:"error,omitempty"`
}

// NewUserResponse converts an API user to UserResponse.
func NewUserResponse(u apiclient.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Position: u.Position,
		Photo:    u.Photo,
	}
}

// NewListResponse converts a list view to ListResponse.
func NewListResponse(v userlist.View) ListResponse {
	items := make([]UserResponse, len(v.Users))
	for i, u := range v.Users {
		items[i] = NewUserResponse(u)
	}

	return ListResponse{
		PageResponse: response.NewPageResponse(items, v.Page, v.TotalPages),
		Loading:      v.Loading,
		Empty:        v.Empty,
		Error:        v.Error,
	}
}
