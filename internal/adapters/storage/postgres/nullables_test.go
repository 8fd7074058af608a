package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/domain/pets"
)

func TestNullables(t *testing.T) {
	name, _ := pets.NewName("Buddy")
	species, _ := pets.NewSpecies("Dog")

	bare, err := pets.NewPet(name, species, nil, nil)
	require.NoError(t, err)
	age, owner := nullables(bare)
	assert.False(t, age.Valid)
	assert.False(t, owner.Valid)

	a, _ := pets.NewAge(0)
	o, _ := pets.NewOwnerName("John Doe")
	full, err := pets.NewPet(name, species, &a, &o)
	require.NoError(t, err)
	age, owner = nullables(full)
	assert.True(t, age.Valid)
	assert.Equal(t, int64(0), age.Int64)
	assert.True(t, owner.Valid)
	assert.Equal(t, "John Doe", owner.String)
}
