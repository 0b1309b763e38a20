package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// queryExecutor abstracts sql.DB and sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is the PostgreSQL implementation of property.Store.  All queries are
// parameterised reads against the platform's tables.
type Store struct {
	db  queryExecutor
	log logging.Logger
}

// NewStore constructs a Store over an established connection.
func NewStore(conn *Connection, log logging.Logger) *Store {
	return &Store{db: conn.DB(), log: log.Named("pgstore")}
}

// NewStoreWithDB constructs a Store over a raw handle, for tests.
func NewStoreWithDB(db queryExecutor, log logging.Logger) *Store {
	return &Store{db: db, log: log.Named("pgstore")}
}

const propertyColumns = `
	p.id, p.client_id, p.name, p.address, p.region,
	p.latitude, p.longitude,
	p.roof_area_sq_ft, p.roof_type, p.installed_at,
	p.manager_id, p.manager_name,
	p.safety_concern, p.customer_tier,
	p.warranty_expires_at, p.last_inspected_at, p.last_maintained_at`

// GetProperty fetches one property by ID.  A missing row is (nil, nil), not
// an error.
func (s *Store) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	query := `SELECT` + propertyColumns + `
		FROM properties p
		WHERE p.id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "failed to fetch property")
	}
	return p, nil
}

// ListProperties fetches properties matching the filter, in stable id order
// so downstream greedy grouping stays deterministic.
func (s *Store) ListProperties(ctx context.Context, filter property.ListFilter) ([]property.Property, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		conds = append(conds, fmt.Sprintf("p.client_id = $%d", len(args)))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		conds = append(conds, fmt.Sprintf("p.manager_id = $%d", len(args)))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		conds = append(conds, fmt.Sprintf("p.region = $%d", len(args)))
	}

	query := `SELECT` + propertyColumns + ` FROM properties p`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "failed to list properties")
	}
	defer rows.Close()

	var props []property.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "failed to scan property row")
		}
		props = append(props, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "property row iteration failed")
	}
	return props, nil
}

// GetInspectionHistory fetches the completed inspections for a property,
// newest first, with their linked reports.
func (s *Store) GetInspectionHistory(ctx context.Context, propertyID string) ([]property.InspectionRecord, error) {
	query := `
		SELECT i.id, i.property_id, i.completed_at, i.findings, i.weather_damage,
		       r.id, r.priority, r.estimated_cost
		FROM inspections i
		LEFT JOIN inspection_reports r ON r.inspection_id = i.id
		WHERE i.property_id = $1 AND i.status = 'completed'
		ORDER BY i.completed_at DESC, i.id, r.id`

	rows, err := s.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "failed to fetch inspection history")
	}
	defer rows.Close()

	var (
		history []property.InspectionRecord
		current *property.InspectionRecord
	)
	for rows.Next() {
		var (
			rec        property.InspectionRecord
			findings   sql.NullString
			reportID   sql.NullString
			priority   sql.NullString
			reportCost sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID, &rec.PropertyID, &rec.CompletedAt, &findings, &rec.WeatherDamage,
			&reportID, &priority, &reportCost,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "failed to scan inspection row")
		}
		rec.Findings = findings.String

		if current == nil || current.ID != rec.ID {
			history = append(history, rec)
			current = &history[len(history)-1]
		}
		if reportID.Valid {
			current.Reports = append(current.Reports, property.InspectionReport{
				ID:            reportID.String,
				Priority:      property.Priority(priority.String),
				EstimatedCost: reportCost.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "inspection row iteration failed")
	}
	return history, nil
}

// GetSeasonalPreferences fetches the stored per-client, per-region table.
// A missing row is (nil, nil).
func (s *Store) GetSeasonalPreferences(ctx context.Context, clientID, region string) (*property.SeasonalPreference, error) {
	query := `
		SELECT client_id, region, months
		FROM seasonal_preferences
		WHERE client_id = $1 AND region = $2`

	var (
		pref   property.SeasonalPreference
		months []byte
	)
	err := s.db.QueryRowContext(ctx, query, clientID, region).
		Scan(&pref.ClientID, &pref.Region, &months)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQueryFailed, "failed to fetch seasonal preferences")
	}

	if err := json.Unmarshal(months, &pref.Months); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "malformed seasonal preference months")
	}
	return &pref, nil
}

// scanProperty maps one properties row, tolerating the nullable columns.
func scanProperty(row interface{ Scan(dest ...interface{}) error }) (*property.Property, error) {
	var (
		p               property.Property
		address, region sql.NullString
		lat, lng        sql.NullFloat64
		area            sql.NullFloat64
		roofType        sql.NullString
		managerID       sql.NullString
		managerName     sql.NullString
		customerTier    sql.NullString
		installedAt     sql.NullTime
		warrantyAt      sql.NullTime
		inspectedAt     sql.NullTime
		maintainedAt    sql.NullTime
	)

	if err := row.Scan(
		&p.ID, &p.ClientID, &p.Name, &address, &region,
		&lat, &lng,
		&area, &roofType, &installedAt,
		&managerID, &managerName,
		&p.SafetyConcern, &customerTier,
		&warrantyAt, &inspectedAt, &maintainedAt,
	); err != nil {
		return nil, err
	}

	p.Address = address.String
	p.Region = region.String
	if lat.Valid && lng.Valid {
		p.Coordinates = geo.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	p.RoofAreaSqFt = area.Float64
	p.RoofType = property.RoofType(roofType.String)
	p.ManagerID = managerID.String
	p.ManagerName = managerName.String
	p.CustomerTier = customerTier.String
	p.InstalledAt = nullableTime(installedAt)
	p.WarrantyExpiresAt = nullableTime(warrantyAt)
	p.LastInspectedAt = nullableTime(inspectedAt)
	p.LastMaintainedAt = nullableTime(maintainedAt)
	return &p, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
