package pets

import "context"

// Repository es el contrato de persistencia de mascotas.
//
// Save distingue create/update solo por la presencia de id:
//   - sin id: asigna un id nuevo y guarda con version 0.
//   - con id: exige que exista (*NotFoundError) y que la versión coincida
//     con la guardada (*ConcurrentModificationError); guarda con version+1.
//
// La ausencia no es un error: FindByID devuelve ok=false y DeleteByID false.
// El error de retorno queda para adapters con I/O (postgres).
type Repository interface {
	FindByID(ctx context.Context, id int64) (Pet, bool, error)
	FindAll(ctx context.Context) ([]Pet, error)
	Save(ctx context.Context, p Pet) (Pet, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
