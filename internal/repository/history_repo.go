package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"salary-api/internal/domain"
)

// HistoryRepository persiste el historial de predicciones (solo inserciones).
type HistoryRepository interface {
	Create(ctx context.Context, record domain.PredictionRecord) error
	ListByUser(ctx context.Context, userID string) ([]domain.PredictionRecord, error)
}

type PgHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgHistoryRepository(pool *pgxpool.Pool) *PgHistoryRepository {
	return &PgHistoryRepository{pool: pool}
}

func (r *PgHistoryRepository) Create(ctx context.Context, rec domain.PredictionRecord) error {
	const query = `
		INSERT INTO prediction_history (
			id, user_id, title, description, job_title, region, experience_level, skills,
			predicted_salary, salary_min, salary_max, monthly_salary, model_used, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	skills := rec.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.Description,
		rec.JobTitle,
		rec.Region,
		rec.ExperienceLevel,
		skills,
		rec.PredictedSalary,
		rec.SalaryMin,
		rec.SalaryMax,
		rec.MonthlySalary,
		rec.ModelUsed,
		rec.CreatedAt,
	)
	return err
}

func (r *PgHistoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.PredictionRecord, error) {
	const query = `
		SELECT id, user_id, title, description, job_title, region, experience_level, skills,
		       predicted_salary, salary_min, salary_max, monthly_salary, model_used, created_at
		FROM prediction_history
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.PredictionRecord{}
	for rows.Next() {
		var rec domain.PredictionRecord
		err = rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Title,
			&rec.Description,
			&rec.JobTitle,
			&rec.Region,
			&rec.ExperienceLevel,
			&rec.Skills,
			&rec.PredictedSalary,
			&rec.SalaryMin,
			&rec.SalaryMax,
			&rec.MonthlySalary,
			&rec.ModelUsed,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
