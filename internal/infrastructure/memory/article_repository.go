package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var (
	_ repository.ArticleRepository      = (*ArticleRepo)(nil)
	_ repository.ArticleStockRepository = (*ArticleRepo)(nil)
)

// ArticleRepo artículos en memoria. Fuera de una transacción solo expone el puerto ArticleRepository.
type ArticleRepo struct {
	h handle
}

// NewArticleRepository repositorio sobre el estado confirmado (sin transacción).
func NewArticleRepository(s *Store) *ArticleRepo {
	return &ArticleRepo{handle{store: s}}
}

func (r *ArticleRepo) Create(_ context.Context, article *entity.Article) error {
	return r.h.write(func(st *state) error {
		for _, a := range st.articles {
			if a.Ref == article.Ref {
				return domain.ErrDuplicate
			}
		}
		cp := *article
		st.articles[article.ID] = &cp
		return nil
	})
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	st, done := r.h.read()
	defer done()
	a, ok := st.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *ArticleRepo) GetByRef(_ context.Context, ref string) (*entity.Article, error) {
	st, done := r.h.read()
	defer done()
	for _, a := range st.articles {
		if a.Ref == ref {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// Update conserva el stock almacenado.
func (r *ArticleRepo) Update(_ context.Context, article *entity.Article) error {
	return r.h.write(func(st *state) error {
		current, ok := st.articles[article.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, a := range st.articles {
			if id != article.ID && a.Ref == article.Ref {
				return domain.ErrDuplicate
			}
		}
		cp := *article
		cp.Stock = current.Stock
		cp.CreatedAt = current.CreatedAt
		st.articles[article.ID] = &cp
		return nil
	})
}

func (r *ArticleRepo) List(_ context.Context, limit, offset int) ([]*entity.Article, error) {
	st, done := r.h.read()
	defer done()
	list := make([]*entity.Article, 0, len(st.articles))
	for _, a := range st.articles {
		cp := *a
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Ref < list[j].Ref })
	return paginate(list, limit, offset), nil
}

func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		delete(st.articles, id)
		return nil
	})
}

func (r *ArticleRepo) CountReferences(_ context.Context, id string) (int, error) {
	st, done := r.h.read()
	defer done()
	n := 0
	for _, p := range st.productions {
		if p.ArticleID == id {
			n++
		}
	}
	for _, c := range st.commandes {
		if c.ArticleID == id {
			n++
		}
	}
	for _, l := range st.livraisons {
		if l.ArticleID == id {
			n++
		}
	}
	return n, nil
}

// GetForUpdate en memoria equivale a GetByID: el mutex de escritura ya serializa la transacción.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.GetByID(ctx, id)
}

func (r *ArticleRepo) UpdateStock(_ context.Context, id string, stock int) error {
	return r.h.write(func(st *state) error {
		a, ok := st.articles[id]
		if !ok {
			return domain.ErrNotFound
		}
		a.Stock = stock
		return nil
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
