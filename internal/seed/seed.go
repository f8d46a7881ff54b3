// Package seed resets the database to a demo fleet. Pilots and flights
// come from pilot.csv when present, otherwise from a small built-in
// roster, with departures spread over the next few hours.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"skyops/copilot/internal/common"
	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/models/entities"
)

// Every second flight is forced onto these routes so the demo network
// has overlapping origins for swap candidates.
var forcedRoutes = [][2]string{
	{"DEL", "BOM"},
	{"BOM", "BLR"},
	{"BLR", "DEL"},
	{"MAA", "CCU"},
	{"CCU", "DEL"},
}

type Seeder struct {
	pilots  *repositories.PilotRepository
	flights *repositories.FlightRepository
	trail   *common.TrailService
}

func NewSeeder(pilots *repositories.PilotRepository, flights *repositories.FlightRepository, trail *common.TrailService) *Seeder {
	return &Seeder{pilots: pilots, flights: flights, trail: trail}
}

// Seed wipes both tables and reloads the demo fleet. Returns the counts
// inserted.
func (s *Seeder) Seed(ctx context.Context) (pilotCount, flightCount int, err error) {
	if err := s.flights.DeleteAll(ctx); err != nil {
		return 0, 0, err
	}
	if err := s.pilots.DeleteAll(ctx); err != nil {
		return 0, 0, err
	}

	rows := loadCSVRows(os.Getenv("PILOT_CSV_PATH"))
	if len(rows) == 0 {
		rows = builtinRows()
	}

	now := time.Now()
	seen := map[string]bool{}
	routeIdx := 0

	for i, row := range rows {
		origin, dest := row.Origin, row.Destination
		if i%2 == 0 {
			r := forcedRoutes[routeIdx%len(forcedRoutes)]
			origin, dest = r[0], r[1]
			routeIdx++
		}

		if !seen[row.PilotID] {
			dutyUsed := rand.Intn(201)
			if row.RestHours < 10 {
				dutyUsed = 300 + rand.Intn(151)
			}
			restEnd := now.Add(-time.Duration(row.RestHours) * time.Hour)
			pilot := &entities.Pilot{
				ID:                    row.PilotID,
				Name:                  row.PilotName,
				Base:                  origin,
				CurrentDutyMinutes:    dutyUsed,
				MaxLegalDutyMinutes:   480,
				RemainingDutyMinutes:  480 - dutyUsed,
				FatigueScore:          entities.NormalizeFatigue(row.Fatigue),
				Status:                entities.PilotAvailable,
				AircraftTypeQualified: entities.StringList{row.AircraftType},
				WeeklyFlightMinutes:   1800 + rand.Intn(801),
				OvertimeRatePerHour:   []float64{5000, 7500, 10000}[rand.Intn(3)],
				LastRestPeriodEnd:     &restEnd,
			}
			if err := s.pilots.Create(ctx, pilot); err != nil {
				return pilotCount, flightCount, err
			}
			seen[row.PilotID] = true
			pilotCount++
		}

		offset := time.Duration(30+rand.Intn(371)) * time.Minute
		const duration = 120
		pilotID := row.PilotID
		pilotName := row.PilotName
		dep := now.Add(offset)
		arr := dep.Add(duration * time.Minute)
		flight := &entities.Flight{
			ID:                    row.FlightID,
			FlightNumber:          row.FlightID,
			Origin:                origin,
			Destination:           dest,
			ScheduledDeparture:    dep,
			ScheduledArrival:      arr,
			FlightDurationMinutes: duration,
			Status:                entities.FlightOnTime,
			AssignedPilotID:       &pilotID,
			PilotName:             &pilotName,
			BoardingAllowed:       true,
		}
		if err := s.flights.Create(ctx, flight); err != nil {
			return pilotCount, flightCount, err
		}
		flightCount++
	}

	s.trail.Reset()
	s.trail.Append("LOG: Database Seeded.")
	logging.Info("database seeded", "pilots", pilotCount, "flights", flightCount)
	return pilotCount, flightCount, nil
}

type seedRow struct {
	FlightID     string
	PilotID      string
	PilotName    string
	Origin       string
	Destination  string
	AircraftType string
	RestHours    float64
	Fatigue      float64
}

func loadCSVRows(path string) []seedRow {
	if path == "" {
		path = "pilot.csv"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	field := func(rec []string, name, def string) string {
		idx, ok := col[name]
		if !ok || idx >= len(rec) || rec[idx] == "" {
			return def
		}
		return rec[idx]
	}

	var rows []seedRow
	for _, rec := range records[1:] {
		flightID := field(rec, "Flight_ID", "")
		if flightID == "" {
			continue
		}
		pilotID := field(rec, "Pilot_ID", "P-"+flightID)
		rest, _ := strconv.ParseFloat(field(rec, "Rest_Hours", "12"), 64)
		fatigue, _ := strconv.ParseFloat(field(rec, "Fatigue_Score", "0"), 64)
		rows = append(rows, seedRow{
			FlightID:     flightID,
			PilotID:      pilotID,
			PilotName:    field(rec, "Name", "Pilot "+pilotID),
			Origin:       field(rec, "Origin", "DEL"),
			Destination:  field(rec, "Destination", "BOM"),
			AircraftType: field(rec, "Aircraft_Type", "A320"),
			RestHours:    rest,
			Fatigue:      fatigue,
		})
	}
	return rows
}

// builtinRows is the fallback fleet when no CSV is mounted.
func builtinRows() []seedRow {
	rows := make([]seedRow, 0, 10)
	names := []string{"A. Sharma", "R. Iyer", "V. Menon", "S. Kaur", "D. Bose", "K. Nair", "M. Rao", "P. Gill", "T. Das", "N. Joshi"}
	for i := 0; i < 10; i++ {
		rows = append(rows, seedRow{
			FlightID:     fmt.Sprintf("AI-%d", 501+i),
			PilotID:      fmt.Sprintf("P-%03d", i+1),
			PilotName:    names[i],
			Origin:       "DEL",
			Destination:  "BOM",
			AircraftType: "A320",
			RestHours:    float64(8 + i),
			Fatigue:      float64((i * 11) % 90),
		})
	}
	return rows
}
