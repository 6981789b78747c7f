package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)

var (
	ErrInvalidSlotDate = errors.New("invalid slot date, use YYYY-MM-DD")
	ErrInvalidSlotTime = errors.New("invalid slot time, use HH:MM")
)

// ScheduleSlot is a bookable (doctor, date, time) unit of availability.
// The triple is unique and IsBooked never goes back to false once set.
type ScheduleSlot struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_slots_doctor_date_time,priority:1" json:"doctor_id"`
	SlotDate  datatypes.Date `gorm:"type:date;not null;uniqueIndex:uq_schedule_slots_doctor_date_time,priority:2" json:"slot_date"`
	SlotTime  datatypes.Time `gorm:"type:time;not null;uniqueIndex:uq_schedule_slots_doctor_date_time,priority:3" json:"slot_time"`
	IsBooked  bool           `gorm:"not null;default:false;index" json:"is_booked"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (ScheduleSlot) TableName() string {
	return "schedule_slots"
}

// DateString formats the slot date as YYYY-MM-DD
func (s *ScheduleSlot) DateString() string {
	return time.Time(s.SlotDate).Format(SlotDateLayout)
}

// TimeString formats the slot time as HH:MM:SS
func (s *ScheduleSlot) TimeString() string {
	return s.SlotTime.String()
}

// Before orders slots by date, then time.
func (s *ScheduleSlot) Before(other *ScheduleSlot) bool {
	if d1, d2 := s.DateString(), other.DateString(); d1 != d2 {
		return d1 < d2
	}
	return s.TimeString() < other.TimeString()
}

// ParseSlotDate parses a YYYY-MM-DD date.
func ParseSlotDate(value string) (datatypes.Date, error) {
	t, err := time.Parse(SlotDateLayout, value)
	if err != nil {
		return datatypes.Date{}, ErrInvalidSlotDate
	}
	return datatypes.Date(t), nil
}

// ParseSlotTime parses HH:MM or HH:MM:SS.
func ParseSlotTime(value string) (datatypes.Time, error) {
	t, err := time.Parse(SlotTimeLayout, value)
	if err != nil {
		t, err = time.Parse("15:04:05", value)
		if err != nil {
			return 0, ErrInvalidSlotTime
		}
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
}
