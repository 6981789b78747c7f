package repository

import (
	"errors"
	"time"

	"hospital-appointment/internal/domain/entity"
	domainRepo "hospital-appointment/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleSlotRepository struct{}

func NewScheduleSlotRepository() domainRepo.ScheduleSlotRepository {
	return &scheduleSlotRepository{}
}

func (r *scheduleSlotRepository) CreateIfAbsent(db *gorm.DB, slot *entity.ScheduleSlot) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "slot_date"}, {Name: "slot_time"}},
		DoNothing: true,
	}).Create(slot)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *scheduleSlotRepository) FindByID(db *gorm.DB, id int) (*entity.ScheduleSlot, error) {
	var slot entity.ScheduleSlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *scheduleSlotRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, filter entity.SlotFilter) ([]entity.ScheduleSlot, error) {
	return r.FindByDoctorIDs(db, []uuid.UUID{doctorID}, filter)
}

func (r *scheduleSlotRepository) FindByDoctorIDs(db *gorm.DB, doctorIDs []uuid.UUID, filter entity.SlotFilter) ([]entity.ScheduleSlot, error) {
	var slots []entity.ScheduleSlot
	if len(doctorIDs) == 0 {
		return slots, nil
	}

	query := db.Where("doctor_id IN ?", doctorIDs)
	if filter.Date != nil {
		query = query.Where("slot_date = ?", filter.Date)
	}
	if filter.FromDate != nil {
		query = query.Where("slot_date >= ?", filter.FromDate)
	}
	if filter.OnlyUnbooked {
		query = query.Where("is_booked = ?", false)
	}

	err := query.Order("slot_date ASC, slot_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// MarkBooked claims the slot with a conditional update. Under READ COMMITTED a
// concurrent claimer blocks on the row lock and then re-checks is_booked, so
// only one transaction ever sees 1 affected row.
func (r *scheduleSlotRepository) MarkBooked(db *gorm.DB, id int) (int64, error) {
	result := db.Model(&entity.ScheduleSlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Updates(map[string]interface{}{"is_booked": true, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
