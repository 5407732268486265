package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salary-api/internal/domain"
)

// CatalogRepository expone consultas de solo lectura sobre ofertas y tablas de dimension.
type CatalogRepository interface {
	ListJobTitles(ctx context.Context) ([]domain.JobTitle, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
	ListExperiences(ctx context.Context) ([]domain.Experience, error)
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	SearchOffers(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, int64, error)
	GetOffer(ctx context.Context, id int64) (domain.Offer, error)
}

type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

func (r *PgCatalogRepository) ListJobTitles(ctx context.Context) ([]domain.JobTitle, error) {
	return listLabels(ctx, r.pool, `SELECT id, label FROM job_titles ORDER BY label`,
		func(id int64, label string) domain.JobTitle { return domain.JobTitle{ID: id, Label: label} })
}

func (r *PgCatalogRepository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	return listLabels(ctx, r.pool, `SELECT id, name FROM regions ORDER BY name`,
		func(id int64, name string) domain.Region { return domain.Region{ID: id, Name: name} })
}

func (r *PgCatalogRepository) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	return listLabels(ctx, r.pool, `SELECT id, label FROM experiences ORDER BY id`,
		func(id int64, label string) domain.Experience { return domain.Experience{ID: id, Label: label} })
}

func (r *PgCatalogRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	return listLabels(ctx, r.pool, `SELECT id, label FROM skills ORDER BY label`,
		func(id int64, label string) domain.Skill { return domain.Skill{ID: id, Label: label} })
}

func (r *PgCatalogRepository) SearchOffers(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, int64, error) {
	countSQL, pageSQL, countArgs, pageArgs := searchOffersQuery(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0, filter.Limit)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *PgCatalogRepository) GetOffer(ctx context.Context, id int64) (domain.Offer, error) {
	query := offerColumns + offerJoins + "WHERE o.id = $1"
	return scanOffer(r.pool.QueryRow(ctx, query, id))
}

func scanOffer(row pgx.Row) (domain.Offer, error) {
	var o domain.Offer
	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Description,
		&o.SalaryMin,
		&o.SalaryMax,
		&o.SalaryAvg,
		&o.JobTitle,
		&o.Experience,
		&o.Department,
		&o.Region,
	)
	if err != nil {
		return domain.Offer{}, err
	}
	return o, nil
}

func listLabels[T any](ctx context.Context, pool *pgxpool.Pool, query string, build func(int64, string) T) ([]T, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var (
			id    int64
			label string
		)
		if err := rows.Scan(&id, &label); err != nil {
			return nil, err
		}
		items = append(items, build(id, label))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
