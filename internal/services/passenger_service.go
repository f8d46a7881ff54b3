package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/notify"
)

// PassengerService serves the self-service surface: flight status in
// plain language, the entitlement ladder for the current delay, and
// voucher emails for the care options a passenger picks.
type PassengerService struct {
	flights *repositories.FlightRepository
	mailer  notify.Mailer
}

func NewPassengerService(flights *repositories.FlightRepository, mailer notify.Mailer) *PassengerService {
	return &PassengerService{flights: flights, mailer: mailer}
}

// Status returns the passenger view of a flight, looked up by id or
// flight number.
func (s *PassengerService) Status(ctx context.Context, ref string) (*dtos.PassengerStatusResponse, error) {
	flight, err := s.flights.GetByIDOrNumber(ctx, ref)
	if err != nil {
		return nil, err
	}

	reason := ""
	if flight.DelayReason != nil {
		reason = *flight.DelayReason
	}
	title, detail := PlainLanguageReason(reason)

	return &dtos.PassengerStatusResponse{
		FlightNumber: flight.FlightNumber,
		Status:       string(flight.Status),
		DelayMinutes: flight.DelayMinutes,
		ReasonTitle:  title,
		ReasonDetail: detail,
		Rights:       RightsForDelay(flight.DelayMinutes),
	}, nil
}

// RequestOption emails the passenger the voucher for the chosen care
// option. Delivery failure is logged, not surfaced; the claim is still
// recorded as sent.
func (s *PassengerService) RequestOption(ctx context.Context, req dtos.PassengerOptionRequest) (string, error) {
	flightNum := "Unknown"
	if flight, err := s.flights.GetByIDOrNumber(ctx, req.FlightID); err == nil {
		flightNum = flight.FlightNumber
	}

	subject, body := voucherEmail(req.OptionID, flightNum)
	if subject == "" {
		return "", fmt.Errorf("unknown option %q", req.OptionID)
	}
	body += "<hr><p><small>SkyOps Passenger Support</small></p>"

	if err := s.mailer.SendMail(ctx, req.Email, subject, body); err != nil {
		logging.Warn("passenger email delivery failed", "to", req.Email, "error", err.Error())
	}
	return fmt.Sprintf("Email sent to %s", req.Email), nil
}

// PlainLanguageReason converts an operational delay reason into a
// passenger-facing title and explanation.
func PlainLanguageReason(reason string) (title, detail string) {
	r := strings.ToLower(reason)
	switch {
	case strings.Contains(r, "fog") || strings.Contains(r, "weather"):
		return "Safety Pause (Weather)", "To ensure your safety during low visibility, we are holding for improved conditions."
	case strings.Contains(r, "technical") || strings.Contains(r, "hydraulic"):
		return "Safety Validation", "Our engineering team is performing a comprehensive safety check. We will not fly until 100% verified."
	case strings.Contains(r, "doc") || strings.Contains(r, "crew") || strings.Contains(r, "fdtl") || strings.Contains(r, "sick"):
		return "Crew Well-being Safety", "To respect safety regulations and crew fatigue limits, we are assigning a fresh team for your journey."
	case strings.Contains(r, "atc"):
		return "Airspace Management", "We are ready to depart and awaiting final safety clearance from Air Traffic Control."
	}
	return "Optimizing Schedule", "We are adjusting the flight path for a smoother journey. We appreciate your patience."
}

// RightsForDelay builds the entitlement ladder: meals past two hours,
// refund and rebooking past four, hotel past six.
func RightsForDelay(delayMinutes int) []dtos.PassengerRight {
	var rights []dtos.PassengerRight
	if delayMinutes > 120 {
		rights = append(rights, dtos.PassengerRight{
			Title:        "Free Meal Voucher",
			Reason:       "Delay > 2 Hours",
			Allowance:    "Up to ₹500 per passenger",
			Timing:       "Available immediately",
			ClaimProcess: "Scan the voucher QR code at any airport restaurant.",
		})
	}
	if delayMinutes > 240 {
		rights = append(rights,
			dtos.PassengerRight{
				Title:        "Full Refund Option",
				Reason:       "Delay > 4 Hours",
				Allowance:    "100% refund of base fare + fuel surcharge",
				Timing:       "Process initiated within 24 hours",
				ClaimProcess: "Select 'Leave & Refund' in the options menu.",
			},
			dtos.PassengerRight{
				Title:        "Free Rescheduling",
				Reason:       "Delay > 4 Hours",
				Allowance:    "Move to any flight within 7 days at no extra cost",
				Timing:       "Immediate confirmation",
				ClaimProcess: "Use the 'Rebook' option or visit the transfer desk.",
			},
		)
	}
	if delayMinutes > 360 {
		rights = append(rights, dtos.PassengerRight{
			Title:        "Hotel Accommodation",
			Reason:       "Delay > 6 Hours / Overnight",
			Allowance:    "One night stay at partner hotel + transport",
			Timing:       "Shuttle departs every 30 mins",
			ClaimProcess: "Collect voucher from the Guest Services counter (Gate 4).",
		})
	}
	return rights
}

func voucherEmail(optionID, flightNum string) (subject, body string) {
	switch optionID {
	case "WAIT":
		return fmt.Sprintf("Lounge Access Voucher - %s", flightNum), fmt.Sprintf(`<h2>Relax While You Wait</h2>
<p>We apologize for the delay on flight <b>%s</b>.</p>
<p>Please use this voucher for complimentary access to the <b>Premium Plaza Lounge</b> (Gate 3).</p>
<p>Code: <b>LNG-%d</b> (valid for 1 passenger)</p>`, flightNum, 10000+rand.Intn(90000))
	case "REBOOK":
		return fmt.Sprintf("Flight Rebooking Confirmation - %s", flightNum), fmt.Sprintf(`<h2>Rebooking Request Received</h2>
<p>We have received your request to rebook flight <b>%s</b>.</p>
<p>Our systems are searching for the next available connection with partner carriers.</p>
<p>You will receive a separate email with your new itinerary within 15 minutes.</p>
<p><i>No extra charges will be applied.</i></p>`, flightNum)
	case "REFUND":
		return fmt.Sprintf("Refund Process Initiated - %s", flightNum), fmt.Sprintf(`<h2>Refund Initiated</h2>
<p>Your refund request for flight <b>%s</b> has been logged.</p>
<p><b>Amount:</b> Full Base Fare + Taxes</p>
<p><b>Reference ID:</b> RF-%d</p>
<p>Please allow 3-5 business days for the amount to reflect in your source account.</p>`, flightNum, 100000+rand.Intn(900000))
	case "HOTEL":
		return fmt.Sprintf("Hotel Accommodation Voucher - %s", flightNum), fmt.Sprintf(`<h2>Overnight Accommodation</h2>
<p>Due to the extended delay, we have arranged a stay for you at the airport transit hotel.</p>
<p><b>Voucher:</b> HTL-%d</p>
<p>A shuttle bus is waiting at Pillar 4 to take you there.</p>`, 1000+rand.Intn(9000))
	}
	return "", ""
}
