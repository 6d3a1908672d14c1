package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"intervia-backend/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	query := `INSERT INTO interview_sessions
		(id, user_id, candidate_name, interview_type, difficulty, total_questions, time_limit_seconds, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.CandidateName, s.InterviewType, s.Difficulty,
		s.TotalQuestions, s.TimeLimitSeconds, s.Status, s.StartedAt,
	).Scan(&s.CreatedAt)
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InterviewSession, error) {
	s := &models.InterviewSession{}
	query := `SELECT id, user_id, candidate_name, interview_type, difficulty, total_questions,
		time_limit_seconds, status, started_at, ended_at, final_score, summary_json, created_at
		FROM interview_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.CandidateName, &s.InterviewType, &s.Difficulty, &s.TotalQuestions,
		&s.TimeLimitSeconds, &s.Status, &s.StartedAt, &s.EndedAt, &s.FinalScore, &s.SummaryJSON, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateStatus moves the durable row between lifecycle states. Final score
// and summary are written only on completion.
func (r *SessionRepo) UpdateStatus(ctx context.Context, s *models.InterviewSession) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = $1, ended_at = $2, final_score = $3, summary_json = $4
		 WHERE id = $5`,
		s.Status, s.EndedAt, s.FinalScore, s.SummaryJSON, s.ID,
	)
	return err
}

// ListByUser returns a page of past sessions, newest first, plus the total
// count for pagination.
func (r *SessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*models.InterviewSession, int, error) {
	var args []interface{}
	argIdx := 1

	where := fmt.Sprintf("WHERE user_id = $%d", argIdx)
	args = append(args, userID)
	argIdx++

	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM interview_sessions " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT id, user_id, candidate_name, interview_type, difficulty, total_questions,
		time_limit_seconds, status, started_at, ended_at, final_score, summary_json, created_at
		FROM interview_sessions %s ORDER BY started_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []*models.InterviewSession
	for rows.Next() {
		s := &models.InterviewSession{}
		err := rows.Scan(
			&s.ID, &s.UserID, &s.CandidateName, &s.InterviewType, &s.Difficulty, &s.TotalQuestions,
			&s.TimeLimitSeconds, &s.Status, &s.StartedAt, &s.EndedAt, &s.FinalScore, &s.SummaryJSON, &s.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}

	return sessions, total, rows.Err()
}

func (r *SessionRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM interview_sessions WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
