package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pet-registry/internal/domain/pets"
)

// petRepo es el store en memoria de mascotas.
//
// Un solo RWMutex protege el mapa y el contador de ids: las lecturas toman
// RLock y devuelven copias; Save y DeleteByID toman Lock, así que el
// check-version-then-write de Save es una sola sección crítica.
type petRepo struct {
	mu     sync.RWMutex
	byID   map[int64]pets.Pet
	nextID int64
}

// NewPetRepo crea el store. Los seeds deben venir persistidos (con id);
// el contador arranca después del mayor id sembrado.
func NewPetRepo(seed ...pets.Pet) pets.Repository {
	r := &petRepo{
		byID:   make(map[int64]pets.Pet, len(seed)),
		nextID: 1,
	}
	for _, p := range seed {
		id, ok := p.ID()
		if !ok {
			panic(fmt.Sprintf("memory: seed pet without id: %s", p))
		}
		r.byID[id] = p
		if id >= r.nextID {
			r.nextID = id + 1
		}
	}
	return r
}

// DemoSeed es el registro de ejemplo con el que arrancaba el servicio en modo demo.
func DemoSeed() []pets.Pet {
	name, _ := pets.NewName("Buddy")
	species, _ := pets.NewSpecies("Dog")
	age, _ := pets.NewAge(3)
	owner, _ := pets.NewOwnerName("John Doe")

	p, err := pets.RestorePet(1, name, species, &age, &owner, 0)
	if err != nil {
		panic(err)
	}
	return []pets.Pet{p}
}

func (r *petRepo) FindByID(ctx context.Context, id int64) (pets.Pet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok, nil
}

func (r *petRepo) FindAll(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	r.mu.RUnlock()

	// ids crecientes => orden de inserción
	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i].ID()
		b, _ := out[j].ID()
		return a < b
	})
	return out, nil
}

func (r *petRepo) Save(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := p.ID()
	if !ok {
		return r.create(p), nil
	}
	return r.update(id, p)
}

// create asume r.mu tomado.
func (r *petRepo) create(p pets.Pet) pets.Pet {
	id := r.nextID
	r.nextID++

	persisted := p.WithAssignedID(id).WithVersion(0)
	r.byID[id] = persisted
	return persisted
}

// update asume r.mu tomado.
func (r *petRepo) update(id int64, p pets.Pet) (pets.Pet, error) {
	current, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, &pets.NotFoundError{ID: id}
	}
	if current.Version() != p.Version() {
		return pets.Pet{}, &pets.ConcurrentModificationError{
			ID:       id,
			Expected: p.Version(),
			Actual:   current.Version(),
		}
	}

	updated := p.WithNextVersion()
	r.byID[id] = updated
	return updated, nil
}

func (r *petRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}
