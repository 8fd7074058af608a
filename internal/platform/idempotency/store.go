// Package idempotency recuerda, por un TTL, el resultado de requests de creación
// marcados con Idempotency-Key, para que un reintento no cree un duplicado.
package idempotency

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store guarda key -> id del recurso creado.
type Store struct {
	c *gocache.Cache

	// locks serializa requests concurrentes con la misma key.
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New crea el store. ttl <= 0 deshabilita la idempotencia (Store nil).
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		return nil
	}
	return &Store{
		c:     gocache.New(ttl, time.Minute),
		locks: make(map[string]*keyLock),
	}
}

// Do ejecuta create una sola vez por key dentro del TTL. Si la key ya tiene
// resultado, devuelve ese id con replayed=true. Un error de create no se
// recuerda: el siguiente reintento vuelve a ejecutar.
func (s *Store) Do(key string, create func() (int64, error)) (id int64, replayed bool, err error) {
	return s.DoChecked(key, nil, create)
}

// DoChecked es Do, pero antes de repetir un id guardado pregunta a alive si
// el recurso sigue existiendo. Si no, ejecuta create y guarda el id nuevo.
// Todo ocurre bajo el lock de la key. alive nil => siempre vivo.
func (s *Store) DoChecked(key string, alive func(id int64) (bool, error), create func() (int64, error)) (id int64, replayed bool, err error) {
	key = strings.TrimSpace(key)
	if s == nil || key == "" {
		id, err = create()
		return id, false, err
	}

	unlock := s.lock(key)
	defer unlock()

	if v, ok := s.c.Get(key); ok {
		prev := v.(int64)
		if alive == nil {
			return prev, true, nil
		}
		ok, err := alive(prev)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return prev, true, nil
		}
		s.c.Delete(key)
	}

	id, err = create()
	if err != nil {
		return 0, false, err
	}
	s.c.SetDefault(key, id)
	return id, false, nil
}

// Forget borra la key (p.ej. si el recurso creado ya no existe).
func (s *Store) Forget(key string) {
	if s == nil {
		return
	}
	s.c.Delete(strings.TrimSpace(key))
}

func (s *Store) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
