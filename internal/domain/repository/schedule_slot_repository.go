package repository

import (
	"hospital-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleSlotRepository interface {
	// CreateIfAbsent inserts slot unless the (doctor, date, time) triple
	// already exists. It reports whether a row was inserted.
	CreateIfAbsent(db *gorm.DB, slot *entity.ScheduleSlot) (bool, error)
	FindByID(db *gorm.DB, id int) (*entity.ScheduleSlot, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, filter entity.SlotFilter) ([]entity.ScheduleSlot, error)
	FindByDoctorIDs(db *gorm.DB, doctorIDs []uuid.UUID, filter entity.SlotFilter) ([]entity.ScheduleSlot, error)
	// MarkBooked flips is_booked only when it is still false. Returns affected
	// rows: 1 = claimed, 0 = already booked or missing.
	MarkBooked(db *gorm.DB, id int) (int64, error)
}
