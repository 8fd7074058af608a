package pets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/adapters/storage/memory"
	"pet-registry/internal/domain/pets"
)

func newService() *pets.Service {
	return pets.NewService(memory.NewPetRepo())
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func i64Ptr(v int64) *int64   { return &v }

func TestService_Scenarios(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	// A: create
	created, err := svc.Create(ctx, pets.CreateInput{
		Name:      "Buddy",
		Species:   "Dog",
		Age:       intPtr(3),
		OwnerName: strPtr("John Doe"),
	})
	require.NoError(t, err)
	id, ok := created.ID()
	require.True(t, ok)
	assert.Equal(t, int64(0), created.Version())
	assert.Equal(t, "Buddy", created.Name().Value())

	// B: update con versión 0
	in := pets.UpdateInput{
		Name:      "Buddy Updated",
		Species:   "Dog",
		Age:       intPtr(3),
		OwnerName: strPtr("John Doe"),
		Version:   i64Ptr(0),
	}
	updated, err := svc.Update(ctx, id, in)
	require.NoError(t, err)
	updatedID, _ := updated.ID()
	assert.Equal(t, id, updatedID)
	assert.Equal(t, int64(1), updated.Version())
	assert.Equal(t, "Buddy Updated", updated.Name().Value())

	// C: mismo input, versión vieja
	_, err = svc.Update(ctx, id, in)
	var cme *pets.ConcurrentModificationError
	require.ErrorAs(t, err, &cme)
	assert.Equal(t, pets.ConcurrentModificationError{ID: id, Expected: 0, Actual: 1}, *cme)

	// D: id nunca guardado
	_, found, err := svc.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_Create_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tests := []struct {
		name  string
		in    pets.CreateInput
		field string
	}{
		{"blank name", pets.CreateInput{Name: " ", Species: "Dog"}, "name"},
		{"empty species", pets.CreateInput{Name: "Buddy"}, "species"},
		{"negative age", pets.CreateInput{Name: "Buddy", Species: "Dog", Age: intPtr(-1)}, "age"},
		{"blank owner", pets.CreateInput{Name: "Buddy", Species: "Dog", OwnerName: strPtr("")}, "owner_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var ive *pets.InvalidValueError
			require.ErrorAs(t, err, &ive)
			assert.Equal(t, tt.field, ive.Field)
		})
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_Create_KeepsTextAsGiven(t *testing.T) {
	p, err := newService().Create(context.Background(), pets.CreateInput{
		Name:      "  Milo ",
		Species:   " Cat",
		OwnerName: strPtr(" Ana  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "  Milo ", p.Name().Value())
	assert.Equal(t, " Cat", p.Species().Value())
	owner, _ := p.OwnerName()
	assert.Equal(t, " Ana  ", owner.Value())
}

func TestService_Update_WithoutVersionUsesStored(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, pets.CreateInput{Name: "Buddy", Species: "Dog"})
	require.NoError(t, err)
	id, _ := created.ID()

	for i := 1; i <= 3; i++ {
		p, err := svc.Update(ctx, id, pets.UpdateInput{Name: "Buddy", Species: "Dog", Age: intPtr(i)})
		require.NoError(t, err)
		assert.Equal(t, int64(i), p.Version())
	}
}

func TestService_Update_NotFound(t *testing.T) {
	_, err := newService().Update(context.Background(), 77, pets.UpdateInput{Name: "X", Species: "Y"})
	assert.True(t, errors.Is(err, pets.ErrNotFound))
}

func TestService_Update_InvalidInputDoesNotTouchStore(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, pets.CreateInput{Name: "Buddy", Species: "Dog"})
	require.NoError(t, err)
	id, _ := created.ID()

	_, err = svc.Update(ctx, id, pets.UpdateInput{Name: "", Species: "Dog"})
	assert.ErrorIs(t, err, pets.ErrInvalidInput)

	got, _, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, pets.CreateInput{Name: "Buddy", Species: "Dog"})
	require.NoError(t, err)
	id, _ := created.ID()

	// F
	deleted, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, found, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err = svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
