package pets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValues(t *testing.T, name, species string) (Name, Species) {
	t.Helper()
	n, err := NewName(name)
	require.NoError(t, err)
	s, err := NewSpecies(species)
	require.NoError(t, err)
	return n, s
}

func TestNewPet_IsTransient(t *testing.T) {
	pairs := [][2]string{{"Buddy", "Dog"}, {"Max", "Cat"}, {"Nemo", "Fish"}}

	for _, pair := range pairs {
		n, s := mustValues(t, pair[0], pair[1])
		p, err := NewPet(n, s, nil, nil)
		require.NoError(t, err)

		_, hasID := p.ID()
		assert.False(t, hasID)
		assert.True(t, p.IsTransient())
		assert.Equal(t, int64(0), p.Version())
		assert.Equal(t, pair[0], p.Name().Value())
		assert.Equal(t, pair[1], p.Species().Value())
	}
}

func TestNewPet_RequiresNameAndSpecies(t *testing.T) {
	n, s := mustValues(t, "Buddy", "Dog")

	_, err := NewPet(Name{}, s, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPet(n, Species{}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = RestorePet(1, Name{}, s, nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewPet_CopiesOptionals(t *testing.T) {
	n, s := mustValues(t, "Buddy", "Dog")
	age, _ := NewAge(3)
	owner, _ := NewOwnerName("John Doe")

	p, err := NewPet(n, s, &age, &owner)
	require.NoError(t, err)

	// cambiar las variables originales no afecta al snapshot
	age, _ = NewAge(9)
	owner, _ = NewOwnerName("Someone Else")

	got, ok := p.Age()
	require.True(t, ok)
	assert.Equal(t, 3, got.Value())
	gotOwner, ok := p.OwnerName()
	require.True(t, ok)
	assert.Equal(t, "John Doe", gotOwner.Value())
}

func TestRestorePet_Validation(t *testing.T) {
	n, s := mustValues(t, "Buddy", "Dog")

	_, err := RestorePet(0, n, s, nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = RestorePet(1, n, s, nil, nil, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := RestorePet(5, n, s, nil, nil, 2)
	require.NoError(t, err)
	id, ok := p.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, int64(2), p.Version())
}

func TestWithAssignedID(t *testing.T) {
	n, s := mustValues(t, "Buddy", "Dog")
	p, _ := NewPet(n, s, nil, nil)

	persisted := p.WithAssignedID(10)
	id, ok := persisted.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(10), id)

	// el original sigue transient
	assert.True(t, p.IsTransient())

	assert.Panics(t, func() { persisted.WithAssignedID(11) })
	assert.Panics(t, func() { p.WithAssignedID(0) })
}

func TestWithNextVersion(t *testing.T) {
	n, s := mustValues(t, "Buddy", "Dog")
	p, _ := RestorePet(1, n, s, nil, nil, 4)

	next := p.WithNextVersion()
	assert.Equal(t, int64(5), next.Version())
	assert.Equal(t, int64(4), p.Version())
	assert.Equal(t, p.Name(), next.Name())
}

func TestPointerAccessors(t *testing.T) {
	n, s := mustValues(t, "Buddy", "Dog")
	p, _ := NewPet(n, s, nil, nil)
	assert.Nil(t, p.AgePtr())
	assert.Nil(t, p.OwnerNamePtr())

	age, _ := NewAge(2)
	p, _ = NewPet(n, s, &age, nil)
	require.NotNil(t, p.AgePtr())
	assert.Equal(t, 2, p.AgePtr().Value())
}
