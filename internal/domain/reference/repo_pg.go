package reference

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) ListCoverageTypes(ctx context.Context) ([]*CoverageType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cov_id, name, is_active FROM coverage_type
		WHERE is_active = true ORDER BY cov_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*CoverageType
	for rows.Next() {
		var c CoverageType
		if err := rows.Scan(&c.CovID, &c.Name, &c.IsActive); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, nil
}

func (r *repoPG) ListDocumentTypes(ctx context.Context) ([]*DocumentType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, name, is_active FROM document_type
		WHERE is_active = true ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DocumentType
	for rows.Next() {
		var d DocumentType
		if err := rows.Scan(&d.Code, &d.Name, &d.IsActive); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, nil
}
