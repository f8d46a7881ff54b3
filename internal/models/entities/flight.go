package entities

import (
	"strings"
	"time"
)

// FlightStatus is the flight lifecycle state.
type FlightStatus string

const (
	FlightOnTime    FlightStatus = "ON_TIME"
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightDelayed   FlightStatus = "DELAYED"
	FlightCritical  FlightStatus = "CRITICAL"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightSwapped   FlightStatus = "SWAPPED"
)

// CauseTag is the explicit disruption cause, set at injection time. Free-text
// reasons are kept for display and as a classification fallback for records
// that predate tagging.
type CauseTag string

const (
	CauseTagNone        CauseTag = ""
	CauseTagCrewSick    CauseTag = "CREW_SICK"
	CauseTagOperational CauseTag = "OPERATIONAL"
	CauseTagDutyLimit   CauseTag = "DUTY_LIMIT"
)

type Flight struct {
	ID                          string       `gorm:"column:id;primaryKey" json:"id"`
	FlightNumber                string       `gorm:"column:flight_number" json:"flightNumber"`
	Origin                      string       `gorm:"column:origin" json:"origin"`
	Destination                 string       `gorm:"column:destination" json:"destination"`
	ScheduledDeparture          time.Time    `gorm:"column:scheduled_departure" json:"scheduledDeparture"`
	ScheduledArrival            time.Time    `gorm:"column:scheduled_arrival" json:"scheduledArrival"`
	FlightDurationMinutes       int          `gorm:"column:flight_duration_minutes" json:"flightDurationMinutes"`
	Status                      FlightStatus `gorm:"column:status" json:"status"`
	DelayMinutes                int          `gorm:"column:delay_minutes" json:"delayMinutes"`
	DelayReason                 *string      `gorm:"column:delay_reason" json:"delayReason,omitempty"`
	AssignedPilotID             *string      `gorm:"column:assigned_pilot_id" json:"assignedPilotId,omitempty"`
	PilotName                   *string      `gorm:"column:pilot_name" json:"pilotName,omitempty"`
	IsNightDuty                 bool         `gorm:"column:is_night_duty" json:"isNightDuty"`
	Landings                    int          `gorm:"column:landings" json:"landings"`
	PredictedFailure            bool         `gorm:"column:predicted_failure" json:"predictedFailure"`
	PredictedFailureProbability float64      `gorm:"column:predicted_failure_probability" json:"predictedFailureProbability"`
	PredictedFailureReason      *string      `gorm:"column:predicted_failure_reason" json:"predictedFailureReason,omitempty"`
	BoardingAllowed             bool         `gorm:"column:boarding_allowed;default:true" json:"boardingAllowed"`
	CauseTag                    CauseTag     `gorm:"column:cause_tag" json:"causeTag,omitempty"`
	LastUpdated                 time.Time    `gorm:"column:last_updated;autoUpdateTime" json:"lastUpdated"`
}

func (Flight) TableName() string {
	return "flights"
}

// Active reports whether the flight can still participate in rostering.
// CANCELLED and SWAPPED flights are only re-targeted by an opposing swap.
func (f *Flight) Active() bool {
	return f.Status != FlightCancelled && f.Status != FlightSwapped
}

// CombinedReason concatenates the predicted-failure and delay reasons; root
// causes (e.g. Technical) must not be masked by symptoms (e.g. FDTL).
func (f *Flight) CombinedReason() string {
	var parts []string
	if f.PredictedFailureReason != nil && *f.PredictedFailureReason != "" {
		parts = append(parts, *f.PredictedFailureReason)
	}
	if f.DelayReason != nil && *f.DelayReason != "" {
		parts = append(parts, *f.DelayReason)
	}
	return strings.Join(parts, " ")
}
