package sessionsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
	"github.com/yogaflow/yoga-sessions/internal/session"
)

// Repository keeps sessions as JSONB documents in the sessions table.
// The seq column preserves insertion order across renames.
type Repository struct {
	db *pgxpool.Pool
}

var _ = session.Repository(&Repository{})

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, s session.Session) error {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "create_session_sql")
	defer span.End()

	document, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("starting transaction: %w", handlePgError(err))
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO sessions (name, document) VALUES ($1, $2);`, s.Name, document)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("inserting into sessions: %w", handlePgError(err))
	}

	err = tx.Commit(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("committing transaction: %w", handlePgError(err))
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, name string) (session.Session, error) {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "get_session_sql")
	defer span.End()

	var document []byte
	err := r.db.QueryRow(ctx, `SELECT document FROM sessions WHERE name = $1;`, name).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, serviceerr.ErrNotFound
		}

		span.RecordError(err)
		return session.Session{}, fmt.Errorf("selecting from sessions: %w", handlePgError(err))
	}

	return decode(document)
}

func (r *Repository) Update(ctx context.Context, name string, s session.Session) error {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "update_session_sql")
	defer span.End()

	document, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("starting transaction: %w", handlePgError(err))
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		`UPDATE sessions SET name = $2, document = $3, updated_at = now() WHERE name = $1;`,
		name, s.Name, document,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("updating sessions: %w", handlePgError(err))
	}

	if ct.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("committing transaction: %w", handlePgError(err))
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, name string) (session.Session, error) {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "delete_session_sql")
	defer span.End()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return session.Session{}, fmt.Errorf("starting transaction: %w", handlePgError(err))
	}
	defer tx.Rollback(ctx)

	var document []byte
	err = tx.QueryRow(ctx, `DELETE FROM sessions WHERE name = $1 RETURNING document;`, name).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, serviceerr.ErrNotFound
		}

		span.RecordError(err)
		return session.Session{}, fmt.Errorf("deleting from sessions: %w", handlePgError(err))
	}

	err = tx.Commit(ctx)
	if err != nil {
		span.RecordError(err)
		return session.Session{}, fmt.Errorf("committing transaction: %w", handlePgError(err))
	}

	return decode(document)
}

func (r *Repository) List(ctx context.Context) ([]session.Session, error) {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "list_sessions_sql")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT document FROM sessions ORDER BY seq;`)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("selecting from sessions: %w", handlePgError(err))
	}

	documents, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scanning rows: %w", handlePgError(err))
	}

	sessions := make([]session.Session, 0, len(documents))
	for _, document := range documents {
		s, err := decode(document)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func decode(document []byte) (session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(document, &s); err != nil {
		return session.Session{}, fmt.Errorf("unmarshalling session: %w", err)
	}

	return s, nil
}
