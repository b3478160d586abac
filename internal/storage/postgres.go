package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/MankweAI/goat-edtech/pkg/config"
)

//go:embed schema.sql
var schemaFS embed.FS

// PostgresRemote stores subscriber rows in a plain Postgres instance. Each
// operation carries its own statement timeout so a stuck connection cannot
// hold a request hostage.
type PostgresRemote struct {
	db        *sql.DB
	opTimeout time.Duration
}

func NewPostgresRemote(cfg config.DatabaseConfig, opTimeout time.Duration) (*PostgresRemote, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	remote := &PostgresRemote{db: db, opTimeout: opTimeout}

	if err := remote.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return remote, nil
}

func (r *PostgresRemote) initializeSchema() error {
	ddl, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}

	if _, err := r.db.Exec(string(ddl)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}

	return nil
}

func (r *PostgresRemote) FetchSubscriber(ctx context.Context, id string) (*SubscriberRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	query := `
		SELECT id, current_menu, context, preferences, conversation, updated_at
		FROM subscribers
		WHERE id = $1`

	row := &SubscriberRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID,
		&row.CurrentMenu,
		&row.Context,
		&row.Preferences,
		&row.Conversation,
		&row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error selecting subscriber: %w", err)
	}

	return row, nil
}

func (r *PostgresRemote) UpsertSubscriber(ctx context.Context, row SubscriberRow) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	query := `
		INSERT INTO subscribers (id, current_menu, context, preferences, conversation, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			current_menu = EXCLUDED.current_menu,
			context = EXCLUDED.context,
			preferences = EXCLUDED.preferences,
			conversation = EXCLUDED.conversation,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.CurrentMenu,
		[]byte(row.Context),
		[]byte(row.Preferences),
		[]byte(row.Conversation),
		row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error upserting subscriber: %w", err)
	}

	return nil
}

func (r *PostgresRemote) InsertEvent(ctx context.Context, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	query := `
		INSERT INTO events (id, type, subscriber_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		ev.ID,
		ev.Type,
		ev.SubscriberID,
		[]byte(ev.Payload),
		ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting event: %w", err)
	}

	return nil
}

func (r *PostgresRemote) Close() error {
	return r.db.Close()
}
