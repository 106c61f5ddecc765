package posesql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/yogaflow/yoga-sessions/internal/pose"
	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

// Repository keeps poses as JSONB documents in the poses table.
type Repository struct {
	db *pgxpool.Pool
}

var _ = pose.Repository(&Repository{})

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, p pose.Pose) error {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "create_pose_sql")
	defer span.End()

	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling pose: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("starting transaction: %w", handlePgError(err))
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO poses (name, document) VALUES ($1, $2);`, p.Name, document)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("inserting into poses: %w", handlePgError(err))
	}

	err = tx.Commit(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("committing transaction: %w", handlePgError(err))
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, name string) (pose.Pose, error) {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "get_pose_sql")
	defer span.End()

	var document []byte
	err := r.db.QueryRow(ctx, `SELECT document FROM poses WHERE name = $1;`, name).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pose.Pose{}, serviceerr.ErrNotFound
		}

		span.RecordError(err)
		return pose.Pose{}, fmt.Errorf("selecting from poses: %w", handlePgError(err))
	}

	return decode(document)
}

func (r *Repository) List(ctx context.Context) ([]pose.Pose, error) {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "list_poses_sql")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT document FROM poses ORDER BY seq;`)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("selecting from poses: %w", handlePgError(err))
	}

	documents, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scanning rows: %w", handlePgError(err))
	}

	poses := make([]pose.Pose, 0, len(documents))
	for _, document := range documents {
		p, err := decode(document)
		if err != nil {
			return nil, err
		}
		poses = append(poses, p)
	}

	return poses, nil
}

func (r *Repository) Delete(ctx context.Context, name string) (pose.Pose, error) {
	tracer := otel.GetTracerProvider()
	ctx, span := tracer.Tracer("").Start(ctx, "delete_pose_sql")
	defer span.End()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return pose.Pose{}, fmt.Errorf("starting transaction: %w", handlePgError(err))
	}
	defer tx.Rollback(ctx)

	var document []byte
	err = tx.QueryRow(ctx, `DELETE FROM poses WHERE name = $1 RETURNING document;`, name).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pose.Pose{}, serviceerr.ErrNotFound
		}

		span.RecordError(err)
		return pose.Pose{}, fmt.Errorf("deleting from poses: %w", handlePgError(err))
	}

	err = tx.Commit(ctx)
	if err != nil {
		span.RecordError(err)
		return pose.Pose{}, fmt.Errorf("committing transaction: %w", handlePgError(err))
	}

	return decode(document)
}

func decode(document []byte) (pose.Pose, error) {
	var p pose.Pose
	if err := json.Unmarshal(document, &p); err != nil {
		return pose.Pose{}, fmt.Errorf("unmarshalling pose: %w", err)
	}

	return p, nil
}
