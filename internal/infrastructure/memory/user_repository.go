package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	h handle
}

// NewUserRepository repositorio sobre el estado confirmado.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{handle{store: s}}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.h.write(func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrDuplicate
			}
		}
		cp := *user
		st.users[user.ID] = &cp
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	st, done := r.h.read()
	defer done()
	u, ok := st.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	st, done := r.h.read()
	defer done()
	for _, u := range st.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.h.write(func(st *state) error {
		current, ok := st.users[user.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *user
		cp.Email = current.Email
		cp.CreatedAt = current.CreatedAt
		st.users[user.ID] = &cp
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	st, done := r.h.read()
	defer done()
	out := make([]*entity.User, 0, len(st.users))
	for _, u := range st.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, limit, offset), nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	st, done := r.h.read()
	defer done()
	return len(st.users), nil
}
