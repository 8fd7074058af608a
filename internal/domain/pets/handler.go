package pets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"pet-registry/internal/platform/idempotency"
	"pet-registry/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const BasePath = "/api/v1/pets"

type HandlerOptions struct {
	// Idempotency puede ser nil (sin soporte de Idempotency-Key).
	Idempotency *idempotency.Store
	Logger      logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	h := &handler{
		svc:      svc,
		idem:     opts.Idempotency,
		log:      opts.Logger,
		validate: newValidator(),
	}
	if h.log == nil {
		h.log = logger.Nop()
	}

	r.Route(BasePath, func(pr chi.Router) {
		pr.Post("/", h.create)
		pr.Get("/", h.list)
		pr.Get("/{petID}", h.get)
		pr.Put("/{petID}", h.update)
		pr.Delete("/{petID}", h.delete)
	})
}

type handler struct {
	svc      *Service
	idem     *idempotency.Store
	log      logger.Logger
	validate *validator.Validate
}

// petRequest sirve para POST y PUT (PUT es reemplazo completo).
type petRequest struct {
	Name      string  `json:"name" validate:"required"`
	Species   string  `json:"species" validate:"required"`
	Age       *int    `json:"age" validate:"omitempty,min=0"`
	OwnerName *string `json:"owner_name"`
}

type petResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Age       *int    `json:"age,omitempty"`
	OwnerName *string `json:"owner_name,omitempty"`
}

// problem sigue RFC 9457 (application/problem+json).
type problem struct {
	Type   string         `json:"type"`
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Detail string         `json:"detail,omitempty"`
	Errors []fieldProblem `json:"errors,omitempty"`

	// Solo en conflictos de versión.
	ID              *int64 `json:"id,omitempty"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
	ActualVersion   *int64 `json:"actual_version,omitempty"`
}

type fieldProblem struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejected_value"`
	Message       string `json:"message"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	in := CreateInput{Name: req.Name, Species: req.Species, Age: req.Age, OwnerName: req.OwnerName}
	key := r.Header.Get("Idempotency-Key")

	var created Pet
	alive := func(id int64) (bool, error) {
		p, found, err := h.svc.GetByID(r.Context(), id)
		if found {
			created = p
		}
		return found, err
	}
	id, replayed, err := h.idem.DoChecked(key, alive, func() (int64, error) {
		p, err := h.svc.Create(r.Context(), in)
		if err != nil {
			return 0, err
		}
		created = p
		id, _ := p.ID()
		return id, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.From(r.Context(), h.log).Info("pet created", map[string]any{
		"pet_id":   id,
		"replayed": replayed,
	})

	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	w.Header().Set("Location", fmt.Sprintf("%s/%d", BasePath, id))
	setETag(w, created)
	writeJSON(w, http.StatusCreated, toPetResponse(created))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, found, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		writeProblem(w, problem{Status: http.StatusNotFound, Title: "Not Found", Detail: fmt.Sprintf("pet %d not found", id)})
		return
	}

	setETag(w, p)
	writeJSON(w, http.StatusOK, toPetResponse(p))
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	version, err := parseIfMatch(r.Header.Get("If-Match"))
	if err != nil {
		writeProblem(w, problem{Status: http.StatusPreconditionFailed, Title: "Precondition Failed", Detail: err.Error()})
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.Update(r.Context(), id, UpdateInput{
		Name:      req.Name,
		Species:   req.Species,
		Age:       req.Age,
		OwnerName: req.OwnerName,
		Version:   version,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.From(r.Context(), h.log).Info("pet updated", map[string]any{
		"pet_id":  id,
		"version": updated.Version(),
	})

	setETag(w, updated)
	writeJSON(w, http.StatusOK, toPetResponse(updated))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		writeProblem(w, problem{Status: http.StatusNotFound, Title: "Not Found", Detail: fmt.Sprintf("pet %d not found", id)})
		return
	}

	logger.From(r.Context(), h.log).Info("pet deleted", map[string]any{"pet_id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request) (petRequest, bool) {
	var req petRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, problem{Status: http.StatusBadRequest, Title: "Bad Request", Detail: "invalid json: " + err.Error()})
		return petRequest{}, false
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeProblem(w, problem{Status: http.StatusBadRequest, Title: "Bad Request", Detail: err.Error()})
			return petRequest{}, false
		}

		fields := make([]fieldProblem, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldProblem{
				Field:         fe.Field(),
				RejectedValue: fe.Value(),
				Message:       validationMessage(fe),
			})
		}
		writeProblem(w, problem{
			Status: http.StatusBadRequest,
			Title:  "Bad Request",
			Detail: "Validation failed for one or more fields",
			Errors: fields,
		})
		return petRequest{}, false
	}
	return req, true
}

// writeError traduce errores del dominio a problem+json.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ive *InvalidValueError
		nfe *NotFoundError
		cme *ConcurrentModificationError
	)

	switch {
	case errors.As(err, &ive):
		writeProblem(w, problem{
			Status: http.StatusBadRequest,
			Title:  "Bad Request",
			Detail: "Validation failed for one or more fields",
			Errors: []fieldProblem{{Field: ive.Field, Message: ive.Reason}},
		})
	case errors.As(err, &nfe):
		writeProblem(w, problem{Status: http.StatusNotFound, Title: "Not Found", Detail: nfe.Error()})
	case errors.As(err, &cme):
		logger.From(r.Context(), h.log).Warn("pet version conflict", map[string]any{
			"pet_id":           cme.ID,
			"expected_version": cme.Expected,
			"actual_version":   cme.Actual,
		})
		writeProblem(w, problem{
			Status:          http.StatusConflict,
			Title:           "Conflict",
			Detail:          cme.Error(),
			ID:              &cme.ID,
			ExpectedVersion: &cme.Expected,
			ActualVersion:   &cme.Actual,
		})
	default:
		logger.From(r.Context(), h.log).Error("pets request failed", map[string]any{"err": err})
		writeProblem(w, problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"})
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "petID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, problem{Status: http.StatusBadRequest, Title: "Bad Request", Detail: fmt.Sprintf("invalid pet id %q", raw)})
		return 0, false
	}
	return id, true
}

// parseIfMatch acepta `"3"`, `W/"3"` o `3`. Vacío o `*` => sin versión esperada.
func parseIfMatch(v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "*" {
		return nil, nil
	}
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("If-Match must be a quoted version number, got %q", v)
	}
	return &n, nil
}

func setETag(w http.ResponseWriter, p Pet) {
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(p.Version(), 10)))
}

func toPetResponse(p Pet) petResponse {
	id, _ := p.ID()
	out := petResponse{
		ID:      id,
		Name:    p.Name().Value(),
		Species: p.Species().Value(),
	}
	if a, ok := p.Age(); ok {
		v := a.Value()
		out.Age = &v
	}
	if o, ok := p.OwnerName(); ok {
		v := o.Value()
		out.OwnerName = &v
	}
	return out
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// usar el nombre JSON en los errores
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func writeProblem(w http.ResponseWriter, p problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
