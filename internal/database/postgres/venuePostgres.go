package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type venueRepository struct {
	db *sql.DB
}

func NewVenueRepository(db *sql.DB) VenueRepository {
	return &venueRepository{db: db}
}

const fullVenueColumns = `id, slug, name, address, city, state, zip, lat, lng,
	google_maps_url, website_url, manager_id, created_at, updated_at`

func scanVenue(row rowScanner, v *entity.Venue) error {
	return row.Scan(
		&v.ID, &v.Slug, &v.Name, &v.Address, &v.City, &v.State, &v.Zip,
		&v.Lat, &v.Lng, &v.GoogleMapsURL, &v.WebsiteURL, &v.ManagerID,
		&v.CreatedAt, &v.UpdatedAt,
	)
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (slug, name, address, city, state, zip, lat, lng,
			google_maps_url, website_url, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		venue.Slug, venue.Name, venue.Address, venue.City, venue.State, venue.Zip,
		venue.Lat, venue.Lng, venue.GoogleMapsURL, venue.WebsiteURL, venue.ManagerID,
		time.Now(),
	).Scan(&venue.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return entity.ErrSlugTaken
	}
	return err
}

func (r *venueRepository) GetByID(ctx context.Context, id int64) (*entity.Venue, error) {
	var venue entity.Venue
	err := scanVenue(r.db.QueryRowContext(ctx,
		`SELECT `+fullVenueColumns+` FROM venues WHERE id = $1`, id), &venue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetBySlug(ctx context.Context, slug string) (*entity.Venue, error) {
	var venue entity.Venue
	err := scanVenue(r.db.QueryRowContext(ctx,
		`SELECT `+fullVenueColumns+` FROM venues WHERE slug = $1`, slug), &venue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetAll(ctx context.Context) ([]*entity.Venue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fullVenueColumns+` FROM venues ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		var venue entity.Venue
		if err := scanVenue(rows, &venue); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, &venue)
	}
	return venues, rows.Err()
}

// GetByIDs loads a set of venues keyed by id, for map pin assembly.
func (r *venueRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Venue, error) {
	result := make(map[int64]*entity.Venue)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fullVenueColumns+` FROM venues WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var venue entity.Venue
		if err := scanVenue(rows, &venue); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		result[venue.ID] = &venue
	}
	return result, rows.Err()
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET slug = $1, name = $2, address = $3, city = $4, state = $5, zip = $6,
			lat = $7, lng = $8, google_maps_url = $9, website_url = $10,
			manager_id = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := r.db.ExecContext(ctx, query,
		venue.Slug, venue.Name, venue.Address, venue.City, venue.State, venue.Zip,
		venue.Lat, venue.Lng, venue.GoogleMapsURL, venue.WebsiteURL, venue.ManagerID,
		time.Now(), venue.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}
	return requireRowsAffected(result, entity.ErrVenueNotFound)
}

func (r *venueRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	return requireRowsAffected(result, entity.ErrVenueNotFound)
}
