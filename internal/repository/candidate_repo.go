package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"intervia-backend/internal/models"
)

type CandidateRepo struct {
	pool *pgxpool.Pool
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

func (r *CandidateRepo) Create(ctx context.Context, c *models.CandidateProfile) error {
	c.ID = uuid.New()
	fieldsBytes, _ := json.Marshal(c.Fields)

	query := `INSERT INTO candidates (id, user_id, fields_json, raw_text, filename)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.UserID, fieldsBytes, c.RawText, c.Filename,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CandidateProfile, error) {
	c := &models.CandidateProfile{}
	var fieldsBytes []byte
	query := `SELECT id, user_id, fields_json, raw_text, filename, created_at, updated_at
		FROM candidates WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &fieldsBytes, &c.RawText, &c.Filename, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fieldsBytes, &c.Fields); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateFields stores extraction results after the oracle responds.
func (r *CandidateRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields models.ResumeFields) error {
	fieldsBytes, _ := json.Marshal(fields)
	_, err := r.pool.Exec(ctx,
		"UPDATE candidates SET fields_json = $1, updated_at = NOW() WHERE id = $2",
		fieldsBytes, id,
	)
	return err
}

func (r *CandidateRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CandidateProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, fields_json, raw_text, filename, created_at, updated_at
		 FROM candidates WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*models.CandidateProfile
	for rows.Next() {
		c := &models.CandidateProfile{}
		var fieldsBytes []byte
		err := rows.Scan(&c.ID, &c.UserID, &fieldsBytes, &c.RawText, &c.Filename, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fieldsBytes, &c.Fields); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

func (r *CandidateRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM candidates WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
