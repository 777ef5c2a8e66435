package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria.
type ClientRepo struct {
	h handle
}

// NewClientRepository repositorio sobre el estado confirmado.
func NewClientRepository(s *Store) *ClientRepo {
	return &ClientRepo{handle{store: s}}
}

func (r *ClientRepo) Create(_ context.Context, client *entity.Client) error {
	return r.h.write(func(st *state) error {
		for _, c := range st.clients {
			if c.Name == client.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *client
		st.clients[client.ID] = &cp
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	st, done := r.h.read()
	defer done()
	c, ok := st.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepo) GetByName(_ context.Context, name string) (*entity.Client, error) {
	st, done := r.h.read()
	defer done()
	for _, c := range st.clients {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) Update(_ context.Context, client *entity.Client) error {
	return r.h.write(func(st *state) error {
		current, ok := st.clients[client.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, c := range st.clients {
			if id != client.ID && c.Name == client.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *client
		cp.CreatedAt = current.CreatedAt
		st.clients[client.ID] = &cp
		return nil
	})
}

func (r *ClientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	st, done := r.h.read()
	defer done()
	list := make([]*entity.Client, 0, len(st.clients))
	for _, c := range st.clients {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		delete(st.clients, id)
		return nil
	})
}

func (r *ClientRepo) CountReferences(_ context.Context, id string) (int, error) {
	st, done := r.h.read()
	defer done()
	n := 0
	for _, c := range st.commandes {
		if c.ClientID == id {
			n++
		}
	}
	for _, l := range st.livraisons {
		if l.ClientID == id {
			n++
		}
	}
	return n, nil
}
