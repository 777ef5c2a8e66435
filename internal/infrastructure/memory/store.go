// Package memory implementa los repositorios sobre mapas en memoria (DB_DRIVER=memory y tests).
// Las transacciones trabajan sobre una copia del estado que solo se publica al hacer commit;
// un mutex de escritura serializa todas las operaciones que modifican datos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	articles    map[string]*entity.Article
	clients     map[string]*entity.Client
	commandes   map[string]*entity.Commande
	productions map[string]*entity.Production
	livraisons  map[string]*entity.Livraison
	sequences   map[int]*entity.DeliveryNoteSequence
	users       map[string]*entity.User
}

func newState() *state {
	return &state{
		articles:    make(map[string]*entity.Article),
		clients:     make(map[string]*entity.Client),
		commandes:   make(map[string]*entity.Commande),
		productions: make(map[string]*entity.Production),
		livraisons:  make(map[string]*entity.Livraison),
		sequences:   make(map[int]*entity.DeliveryNoteSequence),
		users:       make(map[string]*entity.User),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.articles {
		cp := *v
		c.articles[k] = &cp
	}
	for k, v := range s.clients {
		cp := *v
		c.clients[k] = &cp
	}
	for k, v := range s.commandes {
		cp := *v
		c.commandes[k] = &cp
	}
	for k, v := range s.productions {
		cp := *v
		c.productions[k] = &cp
	}
	for k, v := range s.livraisons {
		cp := *v
		c.livraisons[k] = &cp
	}
	for k, v := range s.sequences {
		cp := *v
		c.sequences[k] = &cp
	}
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	return c
}

// Store contiene el estado confirmado.
type Store struct {
	writeMu sync.Mutex   // serializa escritores (transacciones y escrituras sueltas)
	mu      sync.RWMutex // protege el puntero a st
	st      *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado. Si fn devuelve error la copia se descarta (rollback);
// si no, reemplaza al estado confirmado (commit).
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	h := handle{store: s, tx: work}
	repos := inventory.TxRepos{
		Articles:    &ArticleRepo{h},
		Stock:       &ArticleRepo{h},
		Clients:     &ClientRepo{h},
		Commandes:   &CommandeRepo{h},
		Productions: &ProductionRepo{h},
		Livraisons:  &LivraisonRepo{h},
		Sequences:   &SequenceRepo{h},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// handle da acceso al estado: el de la transacción si existe, si no el confirmado.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) read() (*state, func()) {
	if h.tx != nil {
		return h.tx, func() {}
	}
	h.store.mu.RLock()
	return h.store.st, h.store.mu.RUnlock
}

func (h handle) write(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.writeMu.Lock()
	defer h.store.writeMu.Unlock()
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.st)
}
