package dtos

import "skyops/copilot/internal/engine"

// SimulateRequest injects a disruption. Type is WEATHER, TECHNICAL, ATC or
// CREW; SubType refines it (e.g. Fog, Hydraulic, Sickness). With FlightID
// empty the disruption hits every flight departing Airport.
type SimulateRequest struct {
	Type     string `json:"type"`
	SubType  string `json:"subType,omitempty"`
	FlightID string `json:"flight_id,omitempty"`
	Airport  string `json:"airport,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// HealRequest asks for a decision packet for a disrupted flight. FlightID is
// optional; without it the first CRITICAL (else DELAYED) flight is picked.
type HealRequest struct {
	Mode     string `json:"mode,omitempty"`
	FlightID string `json:"flight_id,omitempty"`
}

// RosterHealRequest runs the fallback healing chain for specific flights.
// With no ids given, the diagnosed set from the last optimization attempt is
// not implied; the caller must say which flights to heal.
type RosterHealRequest struct {
	UnassignedFlightIDs []string `json:"unassigned_flight_ids"`
}

// ResolveRequest applies an approved option.
type ResolveRequest struct {
	Option engine.Option `json:"option"`
}

type CrewRestRequest struct {
	PilotID string `json:"pilot_id"`
}

type CrewCostRequest struct {
	PilotID           string `json:"pilot_id"`
	AdditionalMinutes int    `json:"additional_minutes"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

// PassengerOptionRequest asks for a passenger-care email (WAIT, REBOOK,
// REFUND or HOTEL).
type PassengerOptionRequest struct {
	FlightID string `json:"flight_id"`
	OptionID string `json:"option_id"`
	Email    string `json:"email"`
}
