package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PilotStatus represents crew availability.
type PilotStatus string

const (
	PilotAvailable   PilotStatus = "AVAILABLE"
	PilotSick        PilotStatus = "SICK"
	PilotOnDuty      PilotStatus = "ON_DUTY"
	PilotUnavailable PilotStatus = "UNAVAILABLE"
)

// StringList is stored as JSON text so the same model works on Postgres and
// the sqlite test databases.
type StringList []string

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported StringList source type %T", value)
	}
	return json.Unmarshal(raw, l)
}

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// Pilot is the crew record. FatigueScore is kept on the canonical 0-100
// scale; use NormalizeFatigue when ingesting legacy 0.0-1.0 values.
type Pilot struct {
	ID                    string      `gorm:"column:id;primaryKey" json:"id"`
	Name                  string      `gorm:"column:name" json:"name"`
	Base                  string      `gorm:"column:base" json:"base"`
	CurrentDutyMinutes    int         `gorm:"column:current_duty_minutes" json:"currentDutyMinutes"`
	MaxLegalDutyMinutes   int         `gorm:"column:max_legal_duty_minutes;default:480" json:"maxLegalDutyMinutes"`
	RemainingDutyMinutes  int         `gorm:"column:remaining_duty_minutes" json:"remainingDutyMinutes"`
	FatigueScore          float64     `gorm:"column:fatigue_score" json:"fatigueScore"`
	Status                PilotStatus `gorm:"column:status" json:"status"`
	LastNightDuty         bool        `gorm:"column:last_night_duty" json:"lastNightDuty"`
	AircraftTypeQualified StringList  `gorm:"column:aircraft_type_qualified;type:text" json:"aircraftTypeQualified"`
	WeeklyFlightMinutes   int         `gorm:"column:weekly_flight_minutes" json:"weeklyFlightMinutes"`
	OvertimeRatePerHour   float64     `gorm:"column:overtime_rate_per_hour" json:"overtimeRatePerHour"`
	LastRestPeriodEnd     *time.Time  `gorm:"column:last_rest_period_end" json:"lastRestPeriodEnd,omitempty"`
	LastUpdated           time.Time   `gorm:"column:last_updated;autoUpdateTime" json:"lastUpdated"`
}

func (Pilot) TableName() string {
	return "pilots"
}

// NormalizeFatigue converts a legacy 0.0-1.0 fatigue value to the canonical
// 0-100 scale. Values already above 1.0 are assumed canonical.
func NormalizeFatigue(v float64) float64 {
	if v <= 1.0 {
		return v * 100
	}
	return v
}
