//go:build integration

// Package integration holds end-to-end tests that run the engine against a
// real PostgreSQL instance.  Tests require Docker and are gated behind the
// "integration" build tag.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/roofsight/RoofSight-Engine/internal/config"
	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/postgres"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
)

const startupTimeout = 60 * time.Second

// startPostgres launches a PostgreSQL 16 container, connects through the
// engine's connection layer, and applies the migrations from migrations/.
func startPostgres(t *testing.T) (*postgres.Connection, *postgres.Store) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "roofsight",
			"POSTGRES_PASSWORD": "roofsight",
			"POSTGRES_DB":       "roofsight_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(startupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	log, err := logging.NewLogger(logging.LogConfig{Level: "error", Format: "console"})
	require.NoError(t, err)

	conn, err := postgres.NewConnection(config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "roofsight",
		Password: "roofsight",
		DBName:   "roofsight_test",
		SSLMode:  "disable",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NoError(t, conn.RunMigrations(migrationsDir))

	return conn, postgres.NewStore(conn, log)
}

// seedProperty inserts one property row.
func seedProperty(t *testing.T, conn *postgres.Connection, p property.Property) {
	t.Helper()

	var installedAt interface{}
	if p.InstalledAt != nil {
		installedAt = *p.InstalledAt
	}
	_, err := conn.DB().Exec(`
		INSERT INTO properties (
			id, client_id, name, address, region, latitude, longitude,
			roof_area_sq_ft, roof_type, installed_at, manager_id, manager_name,
			safety_concern, customer_tier
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.ClientID, p.Name, p.Address, p.Region,
		p.Coordinates.Latitude, p.Coordinates.Longitude,
		p.RoofAreaSqFt, string(p.RoofType), installedAt,
		p.ManagerID, p.ManagerName, p.SafetyConcern, p.CustomerTier,
	)
	require.NoError(t, err)
}

// seedInspection inserts one completed inspection, optionally with reports.
func seedInspection(t *testing.T, conn *postgres.Connection, rec property.InspectionRecord) {
	t.Helper()

	_, err := conn.DB().Exec(`
		INSERT INTO inspections (id, property_id, status, completed_at, findings, weather_damage)
		VALUES ($1,$2,'completed',$3,$4,$5)`,
		rec.ID, rec.PropertyID, rec.CompletedAt, rec.Findings, rec.WeatherDamage,
	)
	require.NoError(t, err)

	for i, report := range rec.Reports {
		_, err := conn.DB().Exec(`
			INSERT INTO inspection_reports (id, inspection_id, priority, estimated_cost)
			VALUES ($1,$2,$3,$4)`,
			fmt.Sprintf("%s-r%d", rec.ID, i), rec.ID, string(report.Priority), report.EstimatedCost,
		)
		require.NoError(t, err)
	}
}

// seedSeasonalPreference inserts one stored seasonal override.
func seedSeasonalPreference(t *testing.T, conn *postgres.Connection, pref property.SeasonalPreference) {
	t.Helper()

	months, err := json.Marshal(pref.Months)
	require.NoError(t, err)

	_, err = conn.DB().Exec(`
		INSERT INTO seasonal_preferences (client_id, region, months)
		VALUES ($1,$2,$3)`,
		pref.ClientID, pref.Region, months,
	)
	require.NoError(t, err)
}

func timePtr(t time.Time) *time.Time { return &t }
