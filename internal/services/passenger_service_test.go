package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

type recordingMailer struct {
	to      []string
	subject []string
	body    []string
}

func (m *recordingMailer) SendMail(ctx context.Context, to, subject, htmlBody string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, htmlBody)
	return nil
}

func TestRightsForDelay(t *testing.T) {
	cases := []struct {
		delay  int
		titles []string
	}{
		{60, nil},
		{120, nil},
		{121, []string{"Free Meal Voucher"}},
		{241, []string{"Free Meal Voucher", "Full Refund Option", "Free Rescheduling"}},
		{400, []string{"Free Meal Voucher", "Full Refund Option", "Free Rescheduling", "Hotel Accommodation"}},
	}

	for _, tc := range cases {
		rights := RightsForDelay(tc.delay)
		if len(rights) != len(tc.titles) {
			t.Errorf("delay %d: got %d rights, want %d", tc.delay, len(rights), len(tc.titles))
			continue
		}
		for i, want := range tc.titles {
			if rights[i].Title != want {
				t.Errorf("delay %d: rights[%d] = %s, want %s", tc.delay, i, rights[i].Title, want)
			}
		}
	}
}

func TestPlainLanguageReason(t *testing.T) {
	cases := []struct {
		reason string
		title  string
	}{
		{"Heavy Fog", "Safety Pause (Weather)"},
		{"Hydraulic leak detected", "Safety Validation"},
		{"Pilot reported sick", "Crew Well-being Safety"},
		{"Maximum FDTL Exceeded", "Crew Well-being Safety"},
		{"ATC slot restriction", "Airspace Management"},
		{"", "Optimizing Schedule"},
		{"Runway inspection", "Optimizing Schedule"},
	}

	for _, tc := range cases {
		title, detail := PlainLanguageReason(tc.reason)
		if title != tc.title {
			t.Errorf("%q: title = %s, want %s", tc.reason, title, tc.title)
		}
		if detail == "" {
			t.Errorf("%q: empty detail", tc.reason)
		}
	}
}

func TestPassengerStatus_ByFlightNumber(t *testing.T) {
	db := newTestDB(t)
	flights := repositories.NewFlightRepository(db)
	svc := NewPassengerService(flights, &recordingMailer{})

	reason := "Heavy Fog"
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL",
		Status: entities.FlightDelayed, DelayMinutes: 250, DelayReason: &reason,
	})

	resp, err := svc.Status(context.Background(), "ai-501")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if resp.FlightNumber != "AI-501" || resp.Status != "DELAYED" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.ReasonTitle != "Safety Pause (Weather)" {
		t.Errorf("reason title = %s", resp.ReasonTitle)
	}
	if len(resp.Rights) != 3 {
		t.Errorf("rights = %+v", resp.Rights)
	}
}

func TestPassengerStatus_NotFound(t *testing.T) {
	db := newTestDB(t)
	flights := repositories.NewFlightRepository(db)
	svc := NewPassengerService(flights, &recordingMailer{})

	if _, err := svc.Status(context.Background(), "AI-999"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRequestOption_SendsVoucher(t *testing.T) {
	db := newTestDB(t)
	flights := repositories.NewFlightRepository(db)
	mailer := &recordingMailer{}
	svc := NewPassengerService(flights, mailer)

	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL"})

	msg, err := svc.RequestOption(context.Background(), dtos.PassengerOptionRequest{
		FlightID: "F1", OptionID: "HOTEL", Email: "pax@example.com",
	})
	if err != nil {
		t.Fatalf("request option: %v", err)
	}
	if msg != "Email sent to pax@example.com" {
		t.Errorf("msg = %q", msg)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "pax@example.com" {
		t.Fatalf("mailer.to = %v", mailer.to)
	}
	if !strings.Contains(mailer.subject[0], "Hotel Accommodation Voucher - AI-501") {
		t.Errorf("subject = %q", mailer.subject[0])
	}
	if !strings.Contains(mailer.body[0], "SkyOps Passenger Support") {
		t.Errorf("body missing footer: %q", mailer.body[0])
	}
}

func TestRequestOption_UnknownOption(t *testing.T) {
	db := newTestDB(t)
	flights := repositories.NewFlightRepository(db)
	svc := NewPassengerService(flights, &recordingMailer{})

	if _, err := svc.RequestOption(context.Background(), dtos.PassengerOptionRequest{
		FlightID: "F1", OptionID: "TELEPORT", Email: "pax@example.com",
	}); err == nil {
		t.Fatal("expected error for unknown option")
	}
}
