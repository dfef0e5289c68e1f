package sqlite

import (
	"context"

	"github.com/example/training-scheduler/internal/persistence"
)

// VenueRepository persists the venue catalog.
type VenueRepository struct {
	pool *ConnectionPool
}

// NewVenueRepository creates a venue repository backed by the pool.
func NewVenueRepository(pool *ConnectionPool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

// CreateVenue inserts one venue.
func (r *VenueRepository) CreateVenue(ctx context.Context, venue persistence.Venue) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO venues (id, name, room, capacity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		venue.ID, venue.Name, venue.Room, venue.Capacity,
		formatTimestamp(venue.CreatedAt), formatTimestamp(venue.UpdatedAt))
	return mapError(err)
}

// GetVenue fetches one venue by id.
func (r *VenueRepository) GetVenue(ctx context.Context, id string) (persistence.Venue, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, room, capacity, created_at, updated_at FROM venues WHERE id = ?`, id)
	return scanVenue(row)
}

// ListVenues returns every venue ordered by name.
func (r *VenueRepository) ListVenues(ctx context.Context) ([]persistence.Venue, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, room, capacity, created_at, updated_at FROM venues ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var venues []persistence.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return venues, nil
}

func scanVenue(row rowScanner) (persistence.Venue, error) {
	var (
		v                    persistence.Venue
		createdAt, updatedAt string
	)
	err := row.Scan(&v.ID, &v.Name, &v.Room, &v.Capacity, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Venue{}, mapError(err)
	}
	if v.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Venue{}, err
	}
	if v.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Venue{}, err
	}
	return v, nil
}

// BatchRepository persists the training batch catalog.
type BatchRepository struct {
	pool *ConnectionPool
}

// NewBatchRepository creates a batch repository backed by the pool.
func NewBatchRepository(pool *ConnectionPool) *BatchRepository {
	return &BatchRepository{pool: pool}
}

// CreateBatch inserts one batch.
func (r *BatchRepository) CreateBatch(ctx context.Context, batch persistence.Batch) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO batches (id, name, department_id, academic_year, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.Name, batch.DepartmentID, batch.AcademicYear,
		boolToInt(batch.Active),
		formatTimestamp(batch.CreatedAt), formatTimestamp(batch.UpdatedAt))
	return mapError(err)
}

// GetBatch fetches one batch by id.
func (r *BatchRepository) GetBatch(ctx context.Context, id string) (persistence.Batch, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, department_id, academic_year, active, created_at, updated_at
		 FROM batches WHERE id = ?`, id)
	return scanBatch(row)
}

// ListBatches returns every batch ordered by name.
func (r *BatchRepository) ListBatches(ctx context.Context) ([]persistence.Batch, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, department_id, academic_year, active, created_at, updated_at
		 FROM batches ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var batches []persistence.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return batches, nil
}

func scanBatch(row rowScanner) (persistence.Batch, error) {
	var (
		b                    persistence.Batch
		active               int
		createdAt, updatedAt string
	)
	err := row.Scan(&b.ID, &b.Name, &b.DepartmentID, &b.AcademicYear, &active, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Batch{}, mapError(err)
	}
	b.Active = active != 0
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Batch{}, err
	}
	if b.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Batch{}, err
	}
	return b, nil
}
