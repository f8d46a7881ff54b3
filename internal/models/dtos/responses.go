package dtos

import (
	"time"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/models/entities"
)

// APIResponse is the uniform envelope for all endpoints.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// DataResponse is the dashboard snapshot.
type DataResponse struct {
	Flights        []entities.Flight `json:"flights"`
	PilotReadiness []entities.Pilot  `json:"pilot_readiness"`
	AgentLogs      []string          `json:"agent_logs"`
}

type StatusResponse struct {
	Status        string `json:"status"`
	CriticalCount int64  `json:"critical_count"`
}

type SeedResponse struct {
	Pilots  int `json:"pilots"`
	Flights int `json:"flights"`
}

type SimulateResponse struct {
	Status          string   `json:"status"`
	AffectedFlights []string `json:"affected_flights"`
}

// RosterResponse wraps the optimizer outcome.
type RosterResponse struct {
	Result engine.AssignmentResult `json:"result"`
	Log    []string                `json:"log,omitempty"`
}

// HealChainResponse is the fallback healing chain outcome with its full
// audit trail.
type HealChainResponse struct {
	Assignments map[string]string `json:"assignments"`
	Unhealed    []string          `json:"unhealed"`
	Log         []string          `json:"log"`
}

// DecisionResponse is the option-generation result awaiting approval.
type DecisionResponse struct {
	Status string                 `json:"status"`
	Flight *entities.Flight       `json:"flight,omitempty"`
	Packet *engine.DecisionPacket `json:"packet,omitempty"`
}

type ResolveResponse struct {
	Status string   `json:"status"`
	Log    []string `json:"log"`
}

type CrewRestResponse struct {
	Status  string `json:"status"`
	PilotID string `json:"pilot_id"`
}

type CostLine struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type CrewCostResponse struct {
	Cost             float64           `json:"cost"`
	Breakdown        []CostLine        `json:"breakdown"`
	ProjectedFatigue float64           `json:"projected_fatigue"`
	IsOvertime       bool              `json:"is_overtime"`
	Compliance       map[string]string `json:"compliance"`
}

type CommandResponse struct {
	Action  string `json:"action"`
	Payload string `json:"payload,omitempty"`
	Message string `json:"message"`
}

// TrendPoint is one day of the fatigue projection.
type TrendPoint struct {
	Day   string  `json:"day"`
	Score float64 `json:"score"`
	Risk  string  `json:"risk"`
}

type CostSummary struct {
	CurrentWaste     int `json:"current_waste"`
	ProjectedSavings int `json:"projected_savings"`
	EfficiencyScore  int `json:"efficiency_score"`
}

type RiskPrediction struct {
	Location       string `json:"location"`
	Probability    int    `json:"probability"`
	Type           string `json:"type"`
	Impact         string `json:"impact"`
	RootCause      string `json:"root_cause"`
	Recommendation string `json:"recommendation"`
	Details        string `json:"details"`
}

type ReportResponse struct {
	ReportMarkdown string `json:"report_markdown,omitempty"`
	Error          string `json:"error,omitempty"`
}

// PassengerRight is one entitlement in the rights ladder.
type PassengerRight struct {
	Title        string `json:"title"`
	Reason       string `json:"reason"`
	Allowance    string `json:"allowance"`
	Timing       string `json:"timing"`
	ClaimProcess string `json:"claim_process"`
}

type PassengerStatusResponse struct {
	FlightNumber string           `json:"flight_number"`
	Status       string           `json:"status"`
	DelayMinutes int              `json:"delay_minutes"`
	ReasonTitle  string           `json:"reason_title"`
	ReasonDetail string           `json:"reason_detail"`
	Rights       []PassengerRight `json:"rights"`
}

type HealthResponse struct {
	Database string `json:"database"`
	UpSince  string `json:"up_since"`
	Uptime   string `json:"uptime"`
}
