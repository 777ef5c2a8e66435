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

var (
	_ repository.ArticleRepository      = (*ArticleRepo)(nil)
	_ repository.ArticleStockRepository = (*ArticleRepo)(nil)
)

// ArticleRepo implementación de ArticleRepository y ArticleStockRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

const articleColumns = `id, ref, designation, famille, sous_famille, type_process, type_produit, prix_unitaire, mpq, stock, created_at, updated_at`

// Create persiste un nuevo artículo con el stock recibido (0 al crear).
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Ref, a.Designation, a.Famille, a.SousFamille, a.TypeProcess, a.TypeProduit,
		a.UnitPrice, a.MPQ, a.Stock, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return r.getOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

// GetByRef obtiene un artículo por referencia; nil si no existe.
func (r *ArticleRepo) GetByRef(ctx context.Context, ref string) (*entity.Article, error) {
	return r.getOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE ref = $1`, ref)
}

// GetForUpdate obtiene el artículo y bloquea la fila hasta el fin de la transacción.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.getOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1 FOR UPDATE`, id)
}

func (r *ArticleRepo) getOne(ctx context.Context, query string, arg any) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// Update actualiza los campos descriptivos. No toca stock.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	query := `
		UPDATE articles SET ref = $2, designation = $3, famille = $4, sous_famille = $5, type_process = $6,
			type_produit = $7, prix_unitaire = $8, mpq = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Ref, a.Designation, a.Famille, a.SousFamille, a.TypeProcess, a.TypeProduit,
		a.UnitPrice, a.MPQ, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update article: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock escribe el stock materializado. El CHECK (stock >= 0) de la tabla es la última barrera.
func (r *ArticleRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE articles SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: stock %d", domain.ErrInsufficientStock, stock)
		}
		return fmt.Errorf("update article stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos por referencia con paginación.
func (r *ArticleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Article, error) {
	var w where
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY ref` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete elimina el artículo. Las claves foráneas impiden borrar uno con movimientos.
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// CountReferences cuenta producciones, commandes y livraisons del artículo.
func (r *ArticleRepo) CountReferences(ctx context.Context, id string) (int, error) {
	query := `
		SELECT (SELECT count(*) FROM productions WHERE article_id = $1)
		     + (SELECT count(*) FROM commandes WHERE article_id = $1)
		     + (SELECT count(*) FROM livraisons WHERE article_id = $1)`
	var n int
	if err := r.q.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count article references: %w", err)
	}
	return n, nil
}

func scanArticle(row pgxScanner) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID, &a.Ref, &a.Designation, &a.Famille, &a.SousFamille, &a.TypeProcess, &a.TypeProduit,
		&a.UnitPrice, &a.MPQ, &a.Stock, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
