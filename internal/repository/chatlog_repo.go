package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/models"
)

type ChatLogRepo struct {
	pool *pgxpool.Pool
}

func NewChatLogRepo(pool *pgxpool.Pool) *ChatLogRepo {
	return &ChatLogRepo{pool: pool}
}

func (r *ChatLogRepo) Insert(ctx context.Context, l *models.ChatLog) error {
	l.ID = uuid.New()

	query := `INSERT INTO chat_logs (id, model_used, message_count, status, error_code, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		l.ID, l.ModelUsed, l.MessageCount, l.Status, l.ErrorCode, l.DurationMs,
	).Scan(&l.CreatedAt)
}

func (r *ChatLogRepo) Stats(ctx context.Context) (*models.ChatStats, error) {
	s := &models.ChatStats{}

	err := r.pool.QueryRow(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(AVG(duration_ms), 0)
		FROM chat_logs`,
	).Scan(&s.TotalRequests, &s.Succeeded, &s.Failed, &s.AvgDurationMs)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT model_used, COUNT(*)
		FROM chat_logs
		WHERE model_used IS NOT NULL
		GROUP BY model_used
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var mc models.ModelCount
		if err := rows.Scan(&mc.Model, &mc.Count); err != nil {
			return nil, err
		}
		s.ByModel = append(s.ByModel, mc)
	}

	return s, rows.Err()
}
