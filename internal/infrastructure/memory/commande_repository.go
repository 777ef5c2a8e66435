package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.CommandeRepository = (*CommandeRepo)(nil)

// CommandeRepo commandes en memoria.
type CommandeRepo struct {
	h handle
}

// NewCommandeRepository repositorio sobre el estado confirmado.
func NewCommandeRepository(s *Store) *CommandeRepo {
	return &CommandeRepo{handle{store: s}}
}

func (r *CommandeRepo) Create(_ context.Context, commande *entity.Commande) error {
	return r.h.write(func(st *state) error {
		if findCommande(st, commande.ArticleID, commande.ClientID, commande.OrderNumber) != nil {
			return domain.ErrDuplicate
		}
		cp := *commande
		st.commandes[commande.ID] = &cp
		return nil
	})
}

func (r *CommandeRepo) GetByID(_ context.Context, id string) (*entity.Commande, error) {
	st, done := r.h.read()
	defer done()
	c, ok := st.commandes[id]
	if !ok {
		return nil, nil
	}
	return withCommandeDetails(st, c), nil
}

func (r *CommandeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Commande, error) {
	return r.GetByID(ctx, id)
}

func (r *CommandeRepo) GetByNaturalKey(_ context.Context, articleID, clientID, orderNumber string) (*entity.Commande, error) {
	st, done := r.h.read()
	defer done()
	c := findCommande(st, articleID, clientID, orderNumber)
	if c == nil {
		return nil, nil
	}
	return withCommandeDetails(st, c), nil
}

// Update persiste los campos editables; IsActive solo cambia con SetActive.
func (r *CommandeRepo) Update(_ context.Context, commande *entity.Commande) error {
	return r.h.write(func(st *state) error {
		current, ok := st.commandes[commande.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if other := findCommande(st, commande.ArticleID, commande.ClientID, commande.OrderNumber); other != nil && other.ID != commande.ID {
			return domain.ErrDuplicate
		}
		cp := *commande
		cp.IsActive = current.IsActive
		cp.CreatedAt = current.CreatedAt
		st.commandes[commande.ID] = &cp
		return nil
	})
}

func (r *CommandeRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.h.write(func(st *state) error {
		c, ok := st.commandes[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.IsActive = active
		c.UpdatedAt = time.Now()
		return nil
	})
}

func (r *CommandeRepo) List(_ context.Context, filter repository.CommandeFilter) ([]*entity.Commande, error) {
	st, done := r.h.read()
	defer done()
	list := filterCommandes(st, filter)
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *CommandeRepo) Summary(_ context.Context, filter repository.CommandeFilter) (repository.CommandeSummary, error) {
	st, done := r.h.read()
	defer done()
	var s repository.CommandeSummary
	for _, c := range filterCommandes(st, filter) {
		s.NombreCommandes++
		s.TotalQuantite += c.Quantite
		switch c.Type {
		case entity.CommandeTypeFirm:
			s.QuantiteFirm += c.Quantite
		case entity.CommandeTypePlanned:
			s.QuantitePlanned += c.Quantite
		}
	}
	return s, nil
}

func (r *CommandeRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		delete(st.commandes, id)
		return nil
	})
}

func findCommande(st *state, articleID, clientID, orderNumber string) *entity.Commande {
	for _, c := range st.commandes {
		if c.ArticleID == articleID && c.ClientID == clientID && c.OrderNumber == orderNumber {
			return c
		}
	}
	return nil
}

func filterCommandes(st *state, f repository.CommandeFilter) []*entity.Commande {
	var out []*entity.Commande
	for _, c := range st.commandes {
		d := withCommandeDetails(st, c)
		switch {
		case f.ActiveOnly && !d.IsActive:
			continue
		case f.ArticleRef != "" && d.ArticleRef != f.ArticleRef:
			continue
		case f.ClientName != "" && d.ClientName != f.ClientName:
			continue
		case f.OrderNumber != "" && d.OrderNumber != f.OrderNumber:
			continue
		case f.DateSouhaitee != nil && !sameDay(d.DateSouhaitee, *f.DateSouhaitee):
			continue
		case f.CreatedOn != nil && !sameDay(d.CreatedAt, *f.CreatedOn):
			continue
		}
		out = append(out, d)
	}
	return out
}

func withCommandeDetails(st *state, c *entity.Commande) *entity.Commande {
	cp := *c
	if a, ok := st.articles[c.ArticleID]; ok {
		cp.ArticleRef = a.Ref
	}
	if cl, ok := st.clients[c.ClientID]; ok {
		cp.ClientName = cl.Name
	}
	return &cp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// inRange compara por día; from/to nil no acotan.
func inRange(t time.Time, from, to *time.Time) bool {
	day := truncateDay(t)
	if from != nil && day.Before(truncateDay(*from)) {
		return false
	}
	if to != nil && day.After(truncateDay(*to)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
