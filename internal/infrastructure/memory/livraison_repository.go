package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var (
	_ repository.LivraisonRepository            = (*LivraisonRepo)(nil)
	_ repository.DeliveryNoteSequenceRepository = (*SequenceRepo)(nil)
)

// LivraisonRepo livraisons en memoria.
type LivraisonRepo struct {
	h handle
}

// NewLivraisonRepository repositorio sobre el estado confirmado.
func NewLivraisonRepository(s *Store) *LivraisonRepo {
	return &LivraisonRepo{handle{store: s}}
}

func (r *LivraisonRepo) Create(_ context.Context, livraison *entity.Livraison) error {
	return r.h.write(func(st *state) error {
		for _, l := range st.livraisons {
			if l.NumeroBL == livraison.NumeroBL {
				return domain.ErrDuplicate
			}
		}
		cp := *livraison
		st.livraisons[livraison.ID] = &cp
		return nil
	})
}

func (r *LivraisonRepo) GetByID(_ context.Context, id string) (*entity.Livraison, error) {
	st, done := r.h.read()
	defer done()
	l, ok := st.livraisons[id]
	if !ok {
		return nil, nil
	}
	return withLivraisonDetails(st, l), nil
}

// Update no modifica NumeroBL.
func (r *LivraisonRepo) Update(_ context.Context, livraison *entity.Livraison) error {
	return r.h.write(func(st *state) error {
		current, ok := st.livraisons[livraison.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *livraison
		cp.NumeroBL = current.NumeroBL
		cp.CreatedAt = current.CreatedAt
		st.livraisons[livraison.ID] = &cp
		return nil
	})
}

func (r *LivraisonRepo) List(_ context.Context, filter repository.LivraisonFilter) ([]*entity.Livraison, error) {
	st, done := r.h.read()
	defer done()
	var list []*entity.Livraison
	for _, l := range st.livraisons {
		d := withLivraisonDetails(st, l)
		switch {
		case filter.ArticleRef != "" && d.ArticleRef != filter.ArticleRef:
			continue
		case filter.ClientName != "" && d.ClientName != filter.ClientName:
			continue
		case filter.OrderNumber != "" && d.OrderNumber != filter.OrderNumber:
			continue
		case !inRange(d.DateLivraison, filter.From, filter.To):
			continue
		}
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DateLivraison.Equal(list[j].DateLivraison) {
			return list[i].DateLivraison.After(list[j].DateLivraison)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *LivraisonRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		delete(st.livraisons, id)
		return nil
	})
}

func (r *LivraisonRepo) SumDeliveredByCommande(_ context.Context, commandeID string) (int, error) {
	st, done := r.h.read()
	defer done()
	total := 0
	for _, l := range st.livraisons {
		if l.CommandeID == commandeID {
			total += l.QuantiteLivree
		}
	}
	return total, nil
}

func (r *LivraisonRepo) CountByCommande(_ context.Context, commandeID string) (int, error) {
	st, done := r.h.read()
	defer done()
	n := 0
	for _, l := range st.livraisons {
		if l.CommandeID == commandeID {
			n++
		}
	}
	return n, nil
}

func (r *LivraisonRepo) ListNumerosByYear(_ context.Context, year int) ([]string, error) {
	st, done := r.h.read()
	defer done()
	suffix := "/" + strconv.Itoa(year)
	var out []string
	for _, l := range st.livraisons {
		if strings.HasSuffix(l.NumeroBL, suffix) {
			out = append(out, l.NumeroBL)
		}
	}
	return out, nil
}

func withLivraisonDetails(st *state, l *entity.Livraison) *entity.Livraison {
	cp := *l
	if a, ok := st.articles[l.ArticleID]; ok {
		cp.ArticleRef = a.Ref
	}
	if c, ok := st.clients[l.ClientID]; ok {
		cp.ClientName = c.Name
	}
	if c, ok := st.commandes[l.CommandeID]; ok {
		cp.OrderNumber = c.OrderNumber
	}
	return &cp
}

// SequenceRepo contadores de BL por año en memoria.
type SequenceRepo struct {
	h handle
}

func (r *SequenceRepo) GetForUpdate(_ context.Context, year int) (*entity.DeliveryNoteSequence, error) {
	st, done := r.h.read()
	defer done()
	s, ok := st.sequences[year]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SequenceRepo) Init(_ context.Context, year, lastSequence int) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.sequences[year]; !ok {
			st.sequences[year] = &entity.DeliveryNoteSequence{Year: year, LastSequence: lastSequence}
		}
		return nil
	})
}

func (r *SequenceRepo) Save(_ context.Context, seq *entity.DeliveryNoteSequence) error {
	return r.h.write(func(st *state) error {
		cp := *seq
		st.sequences[seq.Year] = &cp
		return nil
	})
}
