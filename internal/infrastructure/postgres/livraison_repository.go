package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var (
	_ repository.LivraisonRepository            = (*LivraisonRepo)(nil)
	_ repository.DeliveryNoteSequenceRepository = (*SequenceRepo)(nil)
)

// LivraisonRepo implementación de LivraisonRepository sobre PostgreSQL.
type LivraisonRepo struct {
	q Querier
}

// NewLivraisonRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLivraisonRepository(q Querier) *LivraisonRepo {
	return &LivraisonRepo{q: q}
}

const livraisonSelect = `
	SELECT l.id, l.numero_bl, l.article_id, l.client_id, l.commande_id, l.quantite_livree, l.date_livraison,
		l.created_at, l.updated_at, a.ref, cl.nom_complet, c.numero_commande_client
	FROM livraisons l
	JOIN articles a ON a.id = l.article_id
	JOIN clients cl ON cl.id = l.client_id
	JOIN commandes c ON c.id = l.commande_id`

func (r *LivraisonRepo) Create(ctx context.Context, l *entity.Livraison) error {
	query := `
		INSERT INTO livraisons (id, numero_bl, article_id, client_id, commande_id, quantite_livree, date_livraison,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.NumeroBL, l.ArticleID, l.ClientID, l.CommandeID, l.QuantiteLivree, l.DateLivraison,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert livraison: %w", err)
	}
	return nil
}

func (r *LivraisonRepo) GetByID(ctx context.Context, id string) (*entity.Livraison, error) {
	l, err := scanLivraison(r.q.QueryRow(ctx, livraisonSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get livraison: %w", err)
	}
	return l, nil
}

// Update no modifica numero_bl.
func (r *LivraisonRepo) Update(ctx context.Context, l *entity.Livraison) error {
	query := `
		UPDATE livraisons SET article_id = $2, client_id = $3, commande_id = $4, quantite_livree = $5,
			date_livraison = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		l.ID, l.ArticleID, l.ClientID, l.CommandeID, l.QuantiteLivree, l.DateLivraison, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update livraison: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero; From/To inclusivos.
func (r *LivraisonRepo) List(ctx context.Context, f repository.LivraisonFilter) ([]*entity.Livraison, error) {
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
	if f.From != nil {
		w.add("l.date_livraison >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("l.date_livraison <= $%d", *f.To)
	}
	query := livraisonSelect + w.String() + ` ORDER BY l.date_livraison DESC, l.created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list livraisons: %w", err)
	}
	defer rows.Close()
	var list []*entity.Livraison
	for rows.Next() {
		l, err := scanLivraison(rows)
		if err != nil {
			return nil, fmt.Errorf("scan livraison: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LivraisonRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM livraisons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete livraison: %w", err)
	}
	return nil
}

func (r *LivraisonRepo) SumDeliveredByCommande(ctx context.Context, commandeID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantite_livree), 0) FROM livraisons WHERE commande_id = $1`, commandeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sum livraisons: %w", err)
	}
	return n, nil
}

func (r *LivraisonRepo) CountByCommande(ctx context.Context, commandeID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM livraisons WHERE commande_id = $1`, commandeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count livraisons: %w", err)
	}
	return n, nil
}

func (r *LivraisonRepo) ListNumerosByYear(ctx context.Context, year int) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT numero_bl FROM livraisons WHERE numero_bl LIKE '%/' || $1`, strconv.Itoa(year))
	if err != nil {
		return nil, fmt.Errorf("list numeros bl: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan numero bl: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanLivraison(row pgxScanner) (*entity.Livraison, error) {
	var l entity.Livraison
	err := row.Scan(
		&l.ID, &l.NumeroBL, &l.ArticleID, &l.ClientID, &l.CommandeID, &l.QuantiteLivree, &l.DateLivraison,
		&l.CreatedAt, &l.UpdatedAt, &l.ArticleRef, &l.ClientName, &l.OrderNumber,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SequenceRepo contador de BL por año (tabla delivery_note_sequences).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Solo tiene sentido dentro de una tx.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) GetForUpdate(ctx context.Context, year int) (*entity.DeliveryNoteSequence, error) {
	var s entity.DeliveryNoteSequence
	err := r.q.QueryRow(ctx,
		`SELECT year, last_sequence FROM delivery_note_sequences WHERE year = $1 FOR UPDATE`, year,
	).Scan(&s.Year, &s.LastSequence)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery note sequence: %w", err)
	}
	return &s, nil
}

// Init es idempotente: si otra transacción creó el año primero, se conserva su valor.
func (r *SequenceRepo) Init(ctx context.Context, year, lastSequence int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO delivery_note_sequences (year, last_sequence) VALUES ($1, $2)
		ON CONFLICT (year) DO NOTHING`, year, lastSequence)
	if err != nil {
		return fmt.Errorf("init delivery note sequence: %w", err)
	}
	return nil
}

func (r *SequenceRepo) Save(ctx context.Context, s *entity.DeliveryNoteSequence) error {
	_, err := r.q.Exec(ctx,
		`UPDATE delivery_note_sequences SET last_sequence = $2 WHERE year = $1`, s.Year, s.LastSequence)
	if err != nil {
		return fmt.Errorf("save delivery note sequence: %w", err)
	}
	return nil
}
