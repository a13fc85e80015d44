package model

import (
	"fmt"

	"github.com/ouola/Phantom-backend/internal/schedule"
)

// OpeningHour is one normalized schedule row owned by a pharmacy.
// Times are stored as "HH:MM" text so both dialects compare them the same way.
type OpeningHour struct {
	ID         uint   `gorm:"primaryKey"`
	PharmacyID uint   `gorm:"not null;index"`
	Weekday    string `gorm:"type:varchar(3);not null;index"`
	StartTime  string `gorm:"type:varchar(5);not null"`
	EndTime    string `gorm:"type:varchar(5);not null"`

	Pharmacy *Pharmacy `gorm:"foreignKey:PharmacyID"`
}

// TableName keeps the plural GORM would not guess for "opening_hour".
func (OpeningHour) TableName() string { return "opening_hours" }

// NewOpeningHour builds the stored form of a schedule row.
func NewOpeningHour(pharmacyID uint, r schedule.Row) OpeningHour {
	return OpeningHour{
		PharmacyID: pharmacyID,
		Weekday:    r.Weekday.String(),
		StartTime:  r.Start.String(),
		EndTime:    r.End.String(),
	}
}

// Row converts the stored form back into a schedule row.
func (h OpeningHour) Row() (schedule.Row, error) {
	d, err := schedule.ParseWeekday(h.Weekday)
	if err != nil {
		return schedule.Row{}, fmt.Errorf("opening hour %d: %w", h.ID, err)
	}
	start, err := schedule.ParseClock(h.StartTime)
	if err != nil {
		return schedule.Row{}, fmt.Errorf("opening hour %d: %w", h.ID, err)
	}
	end, err := schedule.ParseClock(h.EndTime)
	if err != nil {
		return schedule.Row{}, fmt.Errorf("opening hour %d: %w", h.ID, err)
	}
	return schedule.Row{Weekday: d, Start: start, End: end}, nil
}
