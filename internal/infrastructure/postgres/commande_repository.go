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

var _ repository.CommandeRepository = (*CommandeRepo)(nil)

// CommandeRepo implementación de CommandeRepository sobre PostgreSQL.
type CommandeRepo struct {
	q Querier
}

// NewCommandeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommandeRepository(q Querier) *CommandeRepo {
	return &CommandeRepo{q: q}
}

const commandeSelect = `
	SELECT c.id, c.article_id, c.client_id, c.numero_commande_client, c.quantite, c.type_commande,
		c.date_souhaitee, c.is_active, c.created_at, c.updated_at, a.ref, cl.nom_complet
	FROM commandes c
	JOIN articles a ON a.id = c.article_id
	JOIN clients cl ON cl.id = c.client_id`

func (r *CommandeRepo) Create(ctx context.Context, c *entity.Commande) error {
	query := `
		INSERT INTO commandes (id, article_id, client_id, numero_commande_client, quantite, type_commande,
			date_souhaitee, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ArticleID, c.ClientID, c.OrderNumber, c.Quantite, c.Type,
		c.DateSouhaitee, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert commande: %w", err)
	}
	return nil
}

func (r *CommandeRepo) GetByID(ctx context.Context, id string) (*entity.Commande, error) {
	return r.getOne(ctx, commandeSelect+` WHERE c.id = $1`, id)
}

// GetForUpdate bloquea solo la fila de la commande; artículo y cliente se leen sin bloqueo.
func (r *CommandeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Commande, error) {
	return r.getOne(ctx, commandeSelect+` WHERE c.id = $1 FOR UPDATE OF c`, id)
}

func (r *CommandeRepo) GetByNaturalKey(ctx context.Context, articleID, clientID, orderNumber string) (*entity.Commande, error) {
	return r.getOne(ctx, commandeSelect+`
		WHERE c.article_id = $1 AND c.client_id = $2 AND c.numero_commande_client = $3`,
		articleID, clientID, orderNumber)
}

func (r *CommandeRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Commande, error) {
	c, err := scanCommande(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commande: %w", err)
	}
	return c, nil
}

// Update modifica los datos de la commande. is_active solo cambia vía SetActive.
func (r *CommandeRepo) Update(ctx context.Context, c *entity.Commande) error {
	query := `
		UPDATE commandes SET article_id = $2, client_id = $3, numero_commande_client = $4, quantite = $5,
			type_commande = $6, date_souhaitee = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.ArticleID, c.ClientID, c.OrderNumber, c.Quantite, c.Type, c.DateSouhaitee, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update commande: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CommandeRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE commandes SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set commande active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero.
func (r *CommandeRepo) List(ctx context.Context, f repository.CommandeFilter) ([]*entity.Commande, error) {
	w := commandeWhere(f)
	query := commandeSelect + w.String() + ` ORDER BY c.created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list commandes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Commande
	for rows.Next() {
		c, err := scanCommande(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commande: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Summary totaliza sin paginar.
func (r *CommandeRepo) Summary(ctx context.Context, f repository.CommandeFilter) (repository.CommandeSummary, error) {
	w := commandeWhere(f)
	query := `
		SELECT COALESCE(SUM(c.quantite), 0), COUNT(*),
			COALESCE(SUM(CASE WHEN c.type_commande = 'FIRM' THEN c.quantite ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN c.type_commande = 'PLANNED' THEN c.quantite ELSE 0 END), 0)
		FROM commandes c
		JOIN articles a ON a.id = c.article_id
		JOIN clients cl ON cl.id = c.client_id` + w.String()
	var s repository.CommandeSummary
	err := r.q.QueryRow(ctx, query, w.args...).Scan(&s.TotalQuantite, &s.NombreCommandes, &s.QuantiteFirm, &s.QuantitePlanned)
	if err != nil {
		return s, fmt.Errorf("summary commandes: %w", err)
	}
	return s, nil
}

func (r *CommandeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM commandes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete commande: %w", err)
	}
	return nil
}

func commandeWhere(f repository.CommandeFilter) *where {
	w := &where{}
	if f.ArticleRef != "" {
		w.add("a.ref = $%d", f.ArticleRef)
	}
	if f.ClientName != "" {
		w.add("cl.nom_complet = $%d", f.ClientName)
	}
	if f.OrderNumber != "" {
		w.add("c.numero_commande_client = $%d", f.OrderNumber)
	}
	if f.DateSouhaitee != nil {
		w.add("c.date_souhaitee = $%d", *f.DateSouhaitee)
	}
	if f.CreatedOn != nil {
		w.add("c.created_at::date = $%d", *f.CreatedOn)
	}
	if f.ActiveOnly {
		w.raw("c.is_active")
	}
	return w
}

func scanCommande(row pgxScanner) (*entity.Commande, error) {
	var c entity.Commande
	err := row.Scan(
		&c.ID, &c.ArticleID, &c.ClientID, &c.OrderNumber, &c.Quantite, &c.Type,
		&c.DateSouhaitee, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.ArticleRef, &c.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
