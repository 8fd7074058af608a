package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-registry/internal/domain/pets"
	"pet-registry/internal/router"
)

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPetctl_CreateUpdateConflict(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	out, err := run(t, ts.URL, "create", "--name", "Buddy", "--species", "Dog", "--age", "3")
	require.NoError(t, err)

	var created struct {
		ID      int64 `json:"id"`
		Age     *int  `json:"age"`
		Version int64 `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Positive(t, created.ID)
	require.NotNil(t, created.Age)
	assert.Equal(t, 3, *created.Age)
	assert.Equal(t, int64(0), created.Version)

	_, err = run(t, ts.URL, "update", "1", "--name", "Buddy Updated", "--species", "Dog", "--version", "0")
	require.NoError(t, err)

	_, err = run(t, ts.URL, "update", "1", "--name", "Buddy Again", "--species", "Dog", "--version", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, pets.ErrConcurrentModification)
	assert.Equal(t, 4, exitCode(err))

	out, err = run(t, ts.URL, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted pet 1")

	_, err = run(t, ts.URL, "get", "1")
	assert.ErrorIs(t, err, pets.ErrNotFound)
	assert.Equal(t, 3, exitCode(err))
}

func TestPetctl_RejectsBadID(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "get", "abc")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}
