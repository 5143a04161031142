package api

import (
	"encoding/json"

	"github.com/jlasky/marquee/internal/domain"
)

// mapProfile converts the backend profile shape to a domain Identity
func mapProfile(dto profileDTO) domain.Identity {
	display := dto.FirstName
	if display == "" {
		display = dto.Name
	}
	return domain.Identity{
		ID:              dto.ID,
		Email:           dto.Email,
		DisplayName:     display,
		Role:            dto.Role,
		FirstName:       dto.FirstName,
		LastName:        dto.LastName,
		FavouriteGenres: dto.FavouriteGenres,
	}
}

// mapProfileUpdate converts a partial domain update to the wire shape,
// leaving omitted fields absent from the request body
func mapProfileUpdate(in domain.ProfileUpdate) profileUpdateRequest {
	return profileUpdateRequest{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		Password:        in.Password,
		FavouriteGenres: in.FavouriteGenres,
	}
}

// decodeErrorMessage extracts the backend's message from a non-2xx body,
// falling back to empty when the body is not the known envelope
func decodeErrorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
