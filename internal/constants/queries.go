package constants

// Raw SQL used by the sqlx stats repository. These run against Postgres only;
// the GORM repositories cover the portable paths.
const (
	CountFlightsByStatus = `
		SELECT status, COUNT(*) AS total
		FROM flights
		GROUP BY status;
	`

	TotalDelayMinutes = `
		SELECT COALESCE(SUM(delay_minutes), 0) AS total
		FROM flights
		WHERE status NOT IN ('CANCELLED');
	`

	CountPilotsByStatus = `
		SELECT status, COUNT(*) AS total
		FROM pilots
		GROUP BY status;
	`
)
