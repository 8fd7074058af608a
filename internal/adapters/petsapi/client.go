// Package petsapi es el cliente tipado del API HTTP de mascotas (lo usa petctl).
// Traduce 404 y 409 de vuelta a los errores del dominio.
package petsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-registry/internal/domain/pets"
	"pet-registry/internal/platform/httpclient"
)

const basePath = "/api/v1/pets"

type Pet struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Age       *int    `json:"age,omitempty"`
	OwnerName *string `json:"owner_name,omitempty"`

	// Version sale del ETag, no del body.
	Version int64 `json:"-"`
}

type Input struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Age       *int    `json:"age,omitempty"`
	OwnerName *string `json:"owner_name,omitempty"`
}

type Client struct {
	http *httpclient.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("petsapi: base url is required")
	}
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// NewWithHTTP permite inyectar el cliente (tests con httptest).
func NewWithHTTP(c *httpclient.Client) *Client {
	return &Client{http: c}
}

func (c *Client) List(ctx context.Context) ([]Pet, error) {
	var out []Pet
	if err := c.http.DoJSON(ctx, http.MethodGet, basePath, nil, nil, &out); err != nil {
		return nil, translate(0, err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (Pet, error) {
	var out Pet
	h, err := c.http.Do(ctx, http.MethodGet, petPath(id), nil, nil, &out)
	if err != nil {
		return Pet{}, translate(id, err)
	}
	out.Version, err = versionFromETag(h)
	return out, err
}

// Create da de alta una mascota. idempotencyKey es opcional.
func (c *Client) Create(ctx context.Context, in Input, idempotencyKey string) (Pet, error) {
	var headers map[string]string
	if k := strings.TrimSpace(idempotencyKey); k != "" {
		headers = map[string]string{"Idempotency-Key": k}
	}

	var out Pet
	h, err := c.http.Do(ctx, http.MethodPost, basePath, headers, in, &out)
	if err != nil {
		return Pet{}, translate(0, err)
	}
	out.Version, err = versionFromETag(h)
	return out, err
}

// Update reemplaza la mascota. version nil => el servidor usa la versión guardada.
func (c *Client) Update(ctx context.Context, id int64, in Input, version *int64) (Pet, error) {
	var headers map[string]string
	if version != nil {
		headers = map[string]string{"If-Match": strconv.Quote(strconv.FormatInt(*version, 10))}
	}

	var out Pet
	h, err := c.http.Do(ctx, http.MethodPut, petPath(id), headers, in, &out)
	if err != nil {
		return Pet{}, translate(id, err)
	}
	out.Version, err = versionFromETag(h)
	return out, err
}

// Delete devuelve false si la mascota no existía.
func (c *Client) Delete(ctx context.Context, id int64) (bool, error) {
	err := c.http.DoJSON(ctx, http.MethodDelete, petPath(id), nil, nil, nil)
	if err == nil {
		return true, nil
	}
	if httpclient.StatusOf(err) == http.StatusNotFound {
		return false, nil
	}
	return false, translate(id, err)
}

func petPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func versionFromETag(h http.Header) (int64, error) {
	raw := strings.Trim(strings.TrimPrefix(h.Get("ETag"), "W/"), `"`)
	if raw == "" {
		return 0, errors.New("petsapi: response without ETag")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("petsapi: invalid ETag %q: %w", raw, err)
	}
	return v, nil
}

func translate(id int64, err error) error {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return err
	}

	switch he.StatusCode {
	case http.StatusNotFound:
		if id > 0 {
			return &pets.NotFoundError{ID: id}
		}
	case http.StatusConflict:
		if p := he.Problem; p != nil && p.ID != nil && p.ExpectedVersion != nil && p.ActualVersion != nil {
			return &pets.ConcurrentModificationError{ID: *p.ID, Expected: *p.ExpectedVersion, Actual: *p.ActualVersion}
		}
	case http.StatusBadRequest:
		if p := he.Problem; p != nil && len(p.Errors) > 0 {
			return &pets.InvalidValueError{Field: p.Errors[0].Field, Reason: p.Errors[0].Message}
		}
	}
	return err
}
