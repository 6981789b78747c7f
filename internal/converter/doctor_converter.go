package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO.
// Slots are included when loaded.
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:             profile.ID,
		UserID:         profile.UserID,
		Name:           profile.User.Name,
		Email:          profile.User.Email,
		Specialty:      profile.Specialty,
		Location:       profile.Location,
		Bio:            profile.Bio,
		ProfilePicture: profile.ProfilePicture,
		CreatedAt:      profile.CreatedAt,
		UpdatedAt:      profile.UpdatedAt,
	}

	if profile.Slots != nil {
		response.AvailableSlots = SlotsToResponses(profile.Slots)
	}

	return response
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}
