package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo producciones en memoria.
type ProductionRepo struct {
	h handle
}

// NewProductionRepository repositorio sobre el estado confirmado.
func NewProductionRepository(s *Store) *ProductionRepo {
	return &ProductionRepo{handle{store: s}}
}

func (r *ProductionRepo) Create(_ context.Context, production *entity.Production) error {
	return r.h.write(func(st *state) error {
		cp := *production
		st.productions[production.ID] = &cp
		return nil
	})
}

func (r *ProductionRepo) GetByID(_ context.Context, id string) (*entity.Production, error) {
	st, done := r.h.read()
	defer done()
	p, ok := st.productions[id]
	if !ok {
		return nil, nil
	}
	return withProductionDetails(st, p), nil
}

func (r *ProductionRepo) Update(_ context.Context, production *entity.Production) error {
	return r.h.write(func(st *state) error {
		current, ok := st.productions[production.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *production
		cp.CreatedAt = current.CreatedAt
		st.productions[production.ID] = &cp
		return nil
	})
}

// List devuelve las producciones más recientes primero.
func (r *ProductionRepo) List(_ context.Context, filter repository.ProductionFilter) ([]*entity.Production, error) {
	st, done := r.h.read()
	defer done()
	var list []*entity.Production
	for _, p := range st.productions {
		d := withProductionDetails(st, p)
		if filter.ArticleRef != "" && d.ArticleRef != filter.ArticleRef {
			continue
		}
		if !inRange(d.DateProduction, filter.From, filter.To) {
			continue
		}
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DateProduction.Equal(list[j].DateProduction) {
			return list[i].DateProduction.After(list[j].DateProduction)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *ProductionRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		delete(st.productions, id)
		return nil
	})
}

func withProductionDetails(st *state, p *entity.Production) *entity.Production {
	cp := *p
	if a, ok := st.articles[p.ArticleID]; ok {
		cp.ArticleRef = a.Ref
	}
	return &cp
}
