package pets

import "context"

// Service agrupa los casos de uso CRUD. Es pass-through: toda la semántica
// de identidad y concurrencia vive en el Repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name      string
	Species   string
	Age       *int
	OwnerName *string
}

type UpdateInput struct {
	Name      string
	Species   string
	Age       *int
	OwnerName *string

	// Version esperada por el caller (If-Match). nil = usar la versión
	// guardada al momento de leer (last-write-wins salvo carrera).
	Version *int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	name, species, age, owner, err := buildValues(in.Name, in.Species, in.Age, in.OwnerName)
	if err != nil {
		return Pet{}, err
	}

	p, err := NewPet(name, species, age, owner)
	if err != nil {
		return Pet{}, err
	}
	return s.repo.Save(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, bool, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.FindAll(ctx)
}

// Update reemplaza los atributos de una mascota existente.
// Devuelve ErrNotFound si no existe y propaga los conflictos de versión.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Pet, error) {
	current, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !ok {
		return Pet{}, &NotFoundError{ID: id}
	}

	name, species, age, owner, err := buildValues(in.Name, in.Species, in.Age, in.OwnerName)
	if err != nil {
		return Pet{}, err
	}

	version := current.Version()
	if in.Version != nil {
		version = *in.Version
	}

	next, err := RestorePet(id, name, species, age, owner, version)
	if err != nil {
		return Pet{}, err
	}
	return s.repo.Save(ctx, next)
}

func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteByID(ctx, id)
}

func buildValues(rawName, rawSpecies string, rawAge *int, rawOwner *string) (Name, Species, *Age, *OwnerName, error) {
	name, err := NewName(rawName)
	if err != nil {
		return Name{}, Species{}, nil, nil, err
	}
	species, err := NewSpecies(rawSpecies)
	if err != nil {
		return Name{}, Species{}, nil, nil, err
	}
	age, err := AgeFromPtr(rawAge)
	if err != nil {
		return Name{}, Species{}, nil, nil, err
	}
	owner, err := OwnerNameFromPtr(rawOwner)
	if err != nil {
		return Name{}, Species{}, nil, nil, err
	}
	return name, species, age, owner, nil
}
