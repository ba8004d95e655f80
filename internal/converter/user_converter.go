package converter

import (
	"longa/internal/delivery/dto"
	"longa/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Profiles are included when they were loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      role,
		IsActive:  user.Active(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.ProviderProfile != nil {
		response.ProviderProfile = ProviderProfileToResponse(user.ProviderProfile)
	}

	if user.ClientProfile != nil {
		response.ClientProfile = &dto.ClientProfileResponse{
			UserID:          user.ClientProfile.UserID,
			DefaultLocation: user.ClientProfile.DefaultLocation,
			Address:         user.ClientProfile.Address,
		}
	}

	return response
}

// ProviderProfileToResponse flattens a profile and, when loaded, its user.
func ProviderProfileToResponse(profile *entity.ProviderProfile) *dto.ProviderProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProviderProfileResponse{
		UserID:       profile.UserID,
		FullName:     profile.User.FullName,
		Email:        profile.User.Email,
		Phone:        profile.User.Phone,
		IsActive:     profile.User.Active(),
		Location:     profile.Location,
		IsAvailable:  profile.IsAvailable,
		Rating:       profile.Rating,
		PayoutMethod: profile.PayoutMethod,
		PayoutNumber: profile.PayoutNumber,
		Biography:    profile.Biography,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}
}

func ProviderProfilesToResponses(profiles []entity.ProviderProfile) []dto.ProviderProfileResponse {
	responses := make([]dto.ProviderProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *ProviderProfileToResponse(&profiles[i])
	}
	return responses
}
