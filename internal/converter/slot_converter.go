package converter

import (
	"hospital-appointment/internal/delivery/dto"
	"hospital-appointment/internal/domain/entity"
)

// SlotToResponse converts a ScheduleSlot entity to SlotResponse DTO
func SlotToResponse(slot *entity.ScheduleSlot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.SlotResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		Date:      slot.DateString(),
		Time:      slot.TimeString(),
		IsBooked:  slot.IsBooked,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}

func SlotsToResponses(slots []entity.ScheduleSlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = *SlotToResponse(&slots[i])
	}
	return responses
}
