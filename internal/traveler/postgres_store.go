package traveler

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS travelers (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	home_country TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
)`

// PostgresStore is a PostgreSQL implementation of Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgreSQL traveler store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the travelers table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create travelers table: %w", err)
	}
	return nil
}

// FindByEmail retrieves a traveler by email.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Traveler, error) {
	query := `
		SELECT id, email, display_name, home_country, created_at
		FROM travelers
		WHERE email = $1
	`

	var t Traveler
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&t.ID,
		&t.Email,
		&t.DisplayName,
		&t.HomeCountry,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTravelerNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Insert stores a new traveler.
func (s *PostgresStore) Insert(ctx context.Context, t *Traveler) error {
	query := `
		INSERT INTO travelers (id, email, display_name, home_country, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, t.ID, t.Email, t.DisplayName, t.HomeCountry, t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}
