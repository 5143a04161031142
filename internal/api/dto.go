package api

import "github.com/jlasky/marquee/internal/domain"

// Wire shapes for the backend's auth and profile endpoints

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	FavouriteGenres []string `json:"favourite_genres"`
	Role            string   `json:"role"`
}

type logoutRequest struct {
	UserID string `json:"user_id"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// profileDTO tolerates the naming drift seen across backend versions
// (first_name vs name); the mapper resolves it.
type profileDTO struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	Role            string         `json:"role"`
	FavouriteGenres []domain.Genre `json:"favourite_genres"`
}

type profileUpdateRequest struct {
	FirstName       *string         `json:"first_name,omitempty"`
	LastName        *string         `json:"last_name,omitempty"`
	Email           *string         `json:"email,omitempty"`
	Password        *string         `json:"password,omitempty"`
	FavouriteGenres *[]domain.Genre `json:"favourite_genres,omitempty"`
}

// errorBody is the backend's error envelope; message and error are both in
// the wild.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
