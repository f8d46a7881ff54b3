package api

import (
	"net/http"
	"strings"

	"skyops/copilot/internal/models/dtos"
)

// Command maps a free-text ops command to a dashboard action. Keyword
// matching only; anything unrecognized comes back as UNKNOWN.
func (h *Handlers) Command() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CommandRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp := interpretCommand(req.Command)
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

func interpretCommand(command string) *dtos.CommandResponse {
	cmd := strings.ToLower(command)

	if strings.Contains(cmd, "show") || strings.Contains(cmd, "list") {
		switch {
		case strings.Contains(cmd, "delayed"):
			return &dtos.CommandResponse{Action: "FILTER", Payload: "DELAYED", Message: "Showing all delayed flights."}
		case strings.Contains(cmd, "critical"):
			return &dtos.CommandResponse{Action: "FILTER", Payload: "CRITICAL", Message: "Showing critical alerts."}
		case strings.Contains(cmd, "cancelled"):
			return &dtos.CommandResponse{Action: "FILTER", Payload: "CANCELLED", Message: "Showing cancelled flights."}
		case strings.Contains(cmd, "swapped"):
			return &dtos.CommandResponse{Action: "FILTER", Payload: "SWAPPED", Message: "Showing swapped flights."}
		case strings.Contains(cmd, "on time"), strings.Contains(cmd, "ontime"):
			return &dtos.CommandResponse{Action: "FILTER", Payload: "ON_TIME", Message: "Showing on-time flights."}
		case strings.Contains(cmd, "all"):
			return &dtos.CommandResponse{Action: "RESET", Message: "Showing all flights."}
		}
	}

	if strings.Contains(cmd, "reset") || strings.Contains(cmd, "clear") {
		return &dtos.CommandResponse{Action: "RESET", Message: "Dashboard reset."}
	}

	return &dtos.CommandResponse{Action: "UNKNOWN", Message: "I didn't quite catch that."}
}
