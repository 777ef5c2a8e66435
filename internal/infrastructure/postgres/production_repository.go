package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo implementación de ProductionRepository sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

const productionSelect = `
	SELECT p.id, p.article_id, p.quantite, p.date_production, p.created_at, p.updated_at, a.ref
	FROM productions p
	JOIN articles a ON a.id = p.article_id`

func (r *ProductionRepo) Create(ctx context.Context, p *entity.Production) error {
	query := `
		INSERT INTO productions (id, article_id, quantite, date_production, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, p.ID, p.ArticleID, p.Quantite, p.DateProduction, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert production: %w", err)
	}
	return nil
}

func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.Production, error) {
	p, err := scanProduction(r.q.QueryRow(ctx, productionSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production: %w", err)
	}
	return p, nil
}

func (r *ProductionRepo) Update(ctx context.Context, p *entity.Production) error {
	query := `
		UPDATE productions SET article_id = $2, quantite = $3, date_production = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.ArticleID, p.Quantite, p.DateProduction, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update production: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero; From/To inclusivos.
func (r *ProductionRepo) List(ctx context.Context, f repository.ProductionFilter) ([]*entity.Production, error) {
	w := &where{}
	if f.ArticleRef != "" {
		w.add("a.ref = $%d", f.ArticleRef)
	}
	if f.From != nil {
		w.add("p.date_production >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("p.date_production <= $%d", *f.To)
	}
	query := productionSelect + w.String() + ` ORDER BY p.date_production DESC, p.created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Production
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM productions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete production: %w", err)
	}
	return nil
}

func scanProduction(row pgxScanner) (*entity.Production, error) {
	var p entity.Production
	if err := row.Scan(&p.ID, &p.ArticleID, &p.Quantite, &p.DateProduction, &p.CreatedAt, &p.UpdatedAt, &p.ArticleRef); err != nil {
		return nil, err
	}
	return &p, nil
}
