// Package petstest contiene la suite de contrato que todo pets.Repository debe pasar.
package petstest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/domain/pets"
)

// Factory crea un repositorio vacío o sembrado con pets persistidos.
type Factory func(t *testing.T, seed ...pets.Pet) pets.Repository

// Buddy y Max son los registros sembrados de la suite.
func Buddy(t *testing.T) pets.Pet {
	t.Helper()
	return Persisted(t, 1, "Buddy", "Dog", intPtr(3), strPtr("John Doe"), 0)
}

func Max(t *testing.T) pets.Pet {
	t.Helper()
	return Persisted(t, 2, "Max", "Cat", intPtr(5), strPtr("Jane Smith"), 0)
}

// Transient construye una mascota nueva; falla el test si los valores son inválidos.
func Transient(t *testing.T, name, species string, age *int, owner *string) pets.Pet {
	t.Helper()
	n, s, a, o := values(t, name, species, age, owner)
	p, err := pets.NewPet(n, s, a, o)
	require.NoError(t, err)
	return p
}

func Persisted(t *testing.T, id int64, name, species string, age *int, owner *string, version int64) pets.Pet {
	t.Helper()
	n, s, a, o := values(t, name, species, age, owner)
	p, err := pets.RestorePet(id, n, s, a, o, version)
	require.NoError(t, err)
	return p
}

func values(t *testing.T, name, species string, age *int, owner *string) (pets.Name, pets.Species, *pets.Age, *pets.OwnerName) {
	t.Helper()
	n, err := pets.NewName(name)
	require.NoError(t, err)
	s, err := pets.NewSpecies(species)
	require.NoError(t, err)
	a, err := pets.AgeFromPtr(age)
	require.NoError(t, err)
	o, err := pets.OwnerNameFromPtr(owner)
	require.NoError(t, err)
	return n, s, a, o
}

// RunRepositoryContract ejecuta la suite completa contra el adapter.
func RunRepositoryContract(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("FindByID_NotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, ok, err := repo.FindByID(ctx, 999)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("FindByID_Found", func(t *testing.T) {
		repo := newRepo(t, Buddy(t), Max(t))

		got, ok, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Buddy(t), got)
	})

	t.Run("FindAll_Empty", func(t *testing.T) {
		repo := newRepo(t)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("FindAll_ReturnsEveryPet", func(t *testing.T) {
		repo := newRepo(t, Buddy(t), Max(t))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []pets.Pet{Buddy(t), Max(t)}, all)
	})

	t.Run("Save_CreateAssignsIDAndVersionZero", func(t *testing.T) {
		repo := newRepo(t)
		in := Transient(t, "Buddy", "Dog", intPtr(3), strPtr("John Doe"))

		saved, err := repo.Save(ctx, in)
		require.NoError(t, err)

		id, ok := saved.ID()
		require.True(t, ok)
		assert.Positive(t, id)
		assert.Equal(t, int64(0), saved.Version())
		assert.Equal(t, "Buddy", saved.Name().Value())
		assert.Equal(t, "Dog", saved.Species().Value())
		age, ok := saved.Age()
		require.True(t, ok)
		assert.Equal(t, 3, age.Value())
		owner, ok := saved.OwnerName()
		require.True(t, ok)
		assert.Equal(t, "John Doe", owner.Value())

		// round-trip
		got, ok, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, saved, got)
	})

	t.Run("Save_CreateWithoutOptionals", func(t *testing.T) {
		repo := newRepo(t)

		saved, err := repo.Save(ctx, Transient(t, "Charlie", "Rabbit", nil, nil))
		require.NoError(t, err)

		_, hasAge := saved.Age()
		_, hasOwner := saved.OwnerName()
		assert.False(t, hasAge)
		assert.False(t, hasOwner)
	})

	t.Run("Save_CreateIDsStrictlyIncrease", func(t *testing.T) {
		repo := newRepo(t)

		var last int64
		for i := 0; i < 5; i++ {
			saved, err := repo.Save(ctx, Transient(t, "Pet", "Dog", nil, nil))
			require.NoError(t, err)
			id, _ := saved.ID()
			assert.Greater(t, id, last)
			last = id
		}
	})

	t.Run("Save_CreateAfterSeedDoesNotCollide", func(t *testing.T) {
		repo := newRepo(t, Buddy(t), Max(t))

		saved, err := repo.Save(ctx, Transient(t, "Charlie", "Rabbit", nil, nil))
		require.NoError(t, err)
		id, _ := saved.ID()
		assert.Greater(t, id, int64(2))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Save_UpdateIncrementsVersion", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Save(ctx, Transient(t, "Buddy", "Dog", intPtr(3), strPtr("John Doe")))
		require.NoError(t, err)
		id, _ := created.ID()

		upd := Persisted(t, id, "Buddy Updated", "Dog", intPtr(3), strPtr("John Doe"), created.Version())
		saved, err := repo.Save(ctx, upd)
		require.NoError(t, err)

		savedID, _ := saved.ID()
		assert.Equal(t, id, savedID)
		assert.Equal(t, int64(1), saved.Version())
		assert.Equal(t, "Buddy Updated", saved.Name().Value())

		got, ok, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, saved, got)
	})

	t.Run("Save_StaleVersionConflicts", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Save(ctx, Transient(t, "Buddy", "Dog", intPtr(3), strPtr("John Doe")))
		require.NoError(t, err)
		id, _ := created.ID()

		upd := Persisted(t, id, "Buddy Updated", "Dog", intPtr(3), strPtr("John Doe"), 0)
		first, err := repo.Save(ctx, upd)
		require.NoError(t, err)

		_, err = repo.Save(ctx, upd)
		require.Error(t, err)
		assert.True(t, errors.Is(err, pets.ErrConcurrentModification))

		var cme *pets.ConcurrentModificationError
		require.ErrorAs(t, err, &cme)
		assert.Equal(t, id, cme.ID)
		assert.Equal(t, int64(0), cme.Expected)
		assert.Equal(t, int64(1), cme.Actual)

		// el store no cambió
		got, _, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("Save_UpdateMissingIDIsNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Save(ctx, Persisted(t, 42, "Ghost", "Cat", nil, nil, 0))
		require.Error(t, err)
		assert.True(t, errors.Is(err, pets.ErrNotFound))

		var nfe *pets.NotFoundError
		require.ErrorAs(t, err, &nfe)
		assert.Equal(t, int64(42), nfe.ID)
	})

	t.Run("DeleteByID_Existing", func(t *testing.T) {
		repo := newRepo(t, Buddy(t), Max(t))

		deleted, err := repo.DeleteByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, ok, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteByID_Missing", func(t *testing.T) {
		repo := newRepo(t)

		deleted, err := repo.DeleteByID(ctx, 999)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("DeleteByID_Idempotent", func(t *testing.T) {
		repo := newRepo(t, Buddy(t))

		first, err := repo.DeleteByID(ctx, 1)
		require.NoError(t, err)
		second, err := repo.DeleteByID(ctx, 1)
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
		_, ok, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeletedIDIsNeverReused", func(t *testing.T) {
		repo := newRepo(t)

		a, err := repo.Save(ctx, Transient(t, "A", "Dog", nil, nil))
		require.NoError(t, err)
		aID, _ := a.ID()

		_, err = repo.DeleteByID(ctx, aID)
		require.NoError(t, err)

		b, err := repo.Save(ctx, Transient(t, "B", "Dog", nil, nil))
		require.NoError(t, err)
		bID, _ := b.ID()
		assert.Greater(t, bID, aID)
	})
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
