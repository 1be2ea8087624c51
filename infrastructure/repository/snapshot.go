package repository

//go:generate mockgen -source=snapshot.go -destination=mocks/snapshot_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/pkg/errors"
)

const (
	snapshotsTable = "analytics_snapshots"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	Latest(ctx context.Context) (*domain.Snapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type snapshotRepository struct {
	conn *database.Connection
}

func NewSnapshotRepository(conn *database.Connection) SnapshotRepository {
	return &snapshotRepository{
		conn: conn,
	}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	payload, err := json.Marshal(snapshot.Overview)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar overview")
	}

	query, args, err := squirrel.
		Insert(snapshotsTable).
		Columns("id", "taken_at", "fallback_views", "payload").
		Values(
			snapshot.ID,
			snapshot.TakenAt.UTC().Format(time.RFC3339),
			snapshot.FallbackViews,
			string(payload),
		).
		PlaceholderFormat(r.conn.Placeholder()).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao salvar fotografia")
	}

	return nil
}

// Latest retorna a fotografia mais recente ou nil quando não existe nenhuma
func (r *snapshotRepository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	query, args, err := squirrel.
		Select("id", "taken_at", "fallback_views", "payload").
		From(snapshotsTable).
		OrderBy("taken_at DESC").
		Limit(1).
		PlaceholderFormat(r.conn.Placeholder()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	var (
		snapshot domain.Snapshot
		takenAt  string
		payload  string
	)

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&snapshot.ID,
		&takenAt,
		&snapshot.FallbackViews,
		&payload,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar fotografia")
	}

	snapshot.TakenAt, err = time.Parse(time.RFC3339, takenAt)
	if err != nil {
		return nil, errors.Wrapf(err, "data inválida na fotografia %s", snapshot.ID)
	}

	if err := json.Unmarshal([]byte(payload), &snapshot.Overview); err != nil {
		return nil, errors.Wrapf(err, "payload inválido na fotografia %s", snapshot.ID)
	}

	return &snapshot, nil
}

// DeleteOlderThan remove fotografias anteriores ao corte e retorna quantas foram apagadas
func (r *snapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := squirrel.
		Delete(snapshotsTable).
		Where(squirrel.Lt{"taken_at": cutoff.UTC().Format(time.RFC3339)}).
		PlaceholderFormat(r.conn.Placeholder()).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir a query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao remover fotografias antigas")
	}

	return result.RowsAffected()
}
