// Package instrumented decora un pets.Repository con métricas Prometheus.
// No cambia la semántica: devuelve exactamente lo que devuelve el repo interno.
package instrumented

import (
	"context"
	"errors"
	"time"

	"pet-registry/internal/domain/pets"
	"pet-registry/internal/platform/metrics"
)

type petRepo struct {
	next pets.Repository
	m    *metrics.Metrics
	now  func() time.Time
}

func NewPetRepo(next pets.Repository, m *metrics.Metrics) pets.Repository {
	if m == nil {
		return next
	}
	return &petRepo{next: next, m: m, now: time.Now}
}

func (r *petRepo) FindByID(ctx context.Context, id int64) (pets.Pet, bool, error) {
	start := r.now()
	p, ok, err := r.next.FindByID(ctx, id)

	outcome := outcomeOf(err)
	if err == nil && !ok {
		outcome = "not_found"
	}
	r.m.ObserveRepoOp("find_by_id", outcome, r.now().Sub(start))
	return p, ok, err
}

func (r *petRepo) FindAll(ctx context.Context) ([]pets.Pet, error) {
	start := r.now()
	all, err := r.next.FindAll(ctx)
	r.m.ObserveRepoOp("find_all", outcomeOf(err), r.now().Sub(start))
	if err == nil {
		r.m.SetPetsStored(len(all))
	}
	return all, err
}

func (r *petRepo) Save(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	op := "update"
	if p.IsTransient() {
		op = "create"
	}

	start := r.now()
	saved, err := r.next.Save(ctx, p)
	r.m.ObserveRepoOp(op, outcomeOf(err), r.now().Sub(start))
	return saved, err
}

func (r *petRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	start := r.now()
	deleted, err := r.next.DeleteByID(ctx, id)

	outcome := outcomeOf(err)
	if err == nil && !deleted {
		outcome = "not_found"
	}
	r.m.ObserveRepoOp("delete", outcome, r.now().Sub(start))
	return deleted, err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, pets.ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, pets.ErrNotFound):
		return "not_found"
	case errors.Is(err, pets.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
