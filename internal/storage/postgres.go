package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"curator/internal/domain"
)

// Connect opens a pgx connection pool using the storage-service URL.
// A non-empty key replaces the password embedded in the URL.
func Connect(ctx context.Context, storageURL, key string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(storageURL)
	if err != nil {
		return nil, fmt.Errorf("parse storage url: %w", err)
	}
	if key != "" {
		cfg.ConnConfig.Password = key
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the completed_videos table if needed.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS completed_videos (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	url TEXT NOT NULL,
	title TEXT NOT NULL,
	thumbnail TEXT,
	topic TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	tags TEXT[] NOT NULL DEFAULT '{}',
	content_type TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_completed_videos_user_created ON completed_videos(user_id, created_at DESC);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PostgresRepository stores resources in the completed_videos table.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewPostgresRepository wraps an open pool.
func NewPostgresRepository(pool *pgxpool.Pool, logger logrus.FieldLogger) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		log:  logger.WithField("component", "repository"),
		now:  time.Now,
	}
}

func (r *PostgresRepository) Insert(ctx context.Context, res *domain.Resource) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.now().UTC()
	}
	tags := res.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO completed_videos (id, user_id, url, title, thumbnail, topic, difficulty, summary, tags, content_type, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, res.ID, res.UserID, res.URL, res.Title, res.Thumbnail,
		string(res.Topic), string(res.Difficulty), res.Summary, tags,
		string(res.ContentType), res.Status, res.CreatedAt)
	if err != nil {
		r.log.WithError(err).WithField("url", res.URL).Error("Failed to insert resource")
		return fmt.Errorf("insert resource: %w", err)
	}
	r.log.WithFields(logrus.Fields{"id": res.ID, "user_id": res.UserID}).Info("Resource inserted")
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]domain.Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, url, title, thumbnail, topic, difficulty, summary, tags, content_type, status, created_at
		FROM completed_videos
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select resources: %w", err)
	}
	defer rows.Close()

	resources := []domain.Resource{}
	for rows.Next() {
		var (
			res                            domain.Resource
			topic, difficulty, contentType string
		)
		if err := rows.Scan(&res.ID, &res.UserID, &res.URL, &res.Title, &res.Thumbnail,
			&topic, &difficulty, &res.Summary, &res.Tags, &contentType, &res.Status, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		res.Topic = domain.Topic(topic)
		res.Difficulty = domain.Difficulty(difficulty)
		res.ContentType = domain.ContentType(contentType)
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return resources, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM completed_videos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	r.log.WithFields(logrus.Fields{"id": id, "rows": tag.RowsAffected()}).Info("Resource deleted")
	return nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
