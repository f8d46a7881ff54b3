package constants

import "time"

// Regulatory thresholds on the canonical 0-100 fatigue scale.
const (
	FatigueHardLimit     = 80.0
	FatigueAdvisoryFloor = 60.0
	NightLandingsCap     = 2
	DefaultMaxDutyMins   = 480
)

// Option generation parameters.
const (
	ReserveDutyCeilingMins = 300
	SwapWindow             = 6 * time.Hour
	MaxCandidates          = 3
	DefaultDelayMinutes    = 60
)

// Category-specific fallback delays (minutes).
const (
	WeatherHoldMinutes  = 60
	TechnicalFixMinutes = 45
	ATCSlotMinutes      = 90
)

// CO2 impact estimates per action type (kg).
const (
	ImpactCancelKg        = 120
	ImpactPerDelayMinKg   = 10
	ImpactSwapFlightKg    = 50
	ImpactAssignKg        = 80
	ImpactMediumThreshold = 100
	ImpactHighThreshold   = 200
)

// Sustainability heuristic: estimated ground-time minutes saved per action,
// converted to emissions at CO2PerMinuteSavedKg.
const (
	SavedMinutesCancel  = 120
	SavedMinutesAssign  = 60
	SavedMinutesDefault = 30
	CO2PerMinuteSavedKg = 12.5
	FuelLitersPerCO2Kg  = 0.4
)

// DelayInjectionMinutes maps a disruption sub-type to the delay it injects.
var DelayInjectionMinutes = map[string]int{
	"Fog":          240,
	"Thunderstorm": 120,
	"Technical":    180,
	"ATC":          90,
	"Sickness":     0,
}

const DefaultInjectionDelayMinutes = 180

// OperationalKeywords trigger the environmental/technical cause category.
// Matching is case-insensitive; order inside the list is irrelevant, only the
// category precedence (sickness > operational > duty-limit) matters.
var OperationalKeywords = []string{"fog", "weather", "technical", "hydraulic", "atc", "thunderstorm", "storm"}

const (
	SicknessKeyword  = "sick"
	DutyLimitKeyword = "fdtl"
)

const (
	ReasonFDTLExceeded       = "Maximum FDTL Exceeded"
	ReasonPilotIncapacitated = "Pilot Incapacitated (Sick)"
	ReasonManualOverride     = "Manual Operator Override"
)
