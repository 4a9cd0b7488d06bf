package hospitals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS hospital_contacts (
	postcode      TEXT PRIMARY KEY,
	hospital_name TEXT NOT NULL,
	address       TEXT NOT NULL,
	phone         TEXT NOT NULL,
	lat           REAL,
	lng           REAL,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Cache persists resolved hospital contacts keyed by normalized postcode so
// repeat exports for the same site skip the upstream lookups.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the sqlite cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open hospital cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init hospital cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(ctx context.Context, postcode string) (Contact, bool) {
	var (
		contact  Contact
		lat, lng sql.NullFloat64
	)
	row := c.db.QueryRowContext(ctx,
		`SELECT postcode, hospital_name, address, phone, lat, lng
		 FROM hospital_contacts WHERE postcode = ?`, postcode)
	err := row.Scan(&contact.Postcode, &contact.HospitalName, &contact.Address, &contact.Phone, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return Contact{}, false
	}
	if err != nil {
		return Contact{}, false
	}
	if lat.Valid && lng.Valid {
		contact.Coordinates = &Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	return contact, true
}

func (c *Cache) Put(ctx context.Context, contact Contact) error {
	var lat, lng sql.NullFloat64
	if contact.Coordinates != nil {
		lat = sql.NullFloat64{Float64: contact.Coordinates.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: contact.Coordinates.Lng, Valid: true}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO hospital_contacts (postcode, hospital_name, address, phone, lat, lng)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(postcode) DO UPDATE SET
			hospital_name = excluded.hospital_name,
			address       = excluded.address,
			phone         = excluded.phone,
			lat           = excluded.lat,
			lng           = excluded.lng`,
		contact.Postcode, contact.HospitalName, contact.Address, contact.Phone, lat, lng)
	return err
}
