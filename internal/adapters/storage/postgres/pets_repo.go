package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-registry/internal/domain/pets"
)

// PetsRepo guarda mascotas en Postgres. El chequeo de versión va en el
// WHERE del UPDATE, así que la atomicidad la da la base.
type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) FindByID(ctx context.Context, id int64) (pets.Pet, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, species, age, owner_name, version
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, false, nil
		}
		return pets.Pet{}, false, err
	}
	return p, true, nil
}

func (r *PetsRepo) FindAll(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, species, age, owner_name, version
		FROM pets
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PetsRepo) Save(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if p.IsTransient() {
		return r.insert(ctx, p)
	}
	return r.update(ctx, p)
}

func (r *PetsRepo) insert(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	age, owner := nullables(p)

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (name, species, age, owner_name, version)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id
	`, p.Name().Value(), p.Species().Value(), age, owner).Scan(&id)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("postgres: insert pet: %w", err)
	}

	return p.WithAssignedID(id).WithVersion(0), nil
}

func (r *PetsRepo) update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	id, _ := p.ID()
	age, owner := nullables(p)

	var newVersion int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			species = $4,
			age = $5,
			owner_name = $6,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`, id, p.Version(), p.Name().Value(), p.Species().Value(), age, owner).Scan(&newVersion)
	if err == nil {
		return p.WithVersion(newVersion), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, fmt.Errorf("postgres: update pet %d: %w", id, err)
	}

	// 0 filas: o no existe o la versión no coincide
	var actual int64
	err = r.db.QueryRowContext(ctx, `SELECT version FROM pets WHERE id = $1`, id).Scan(&actual)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, &pets.NotFoundError{ID: id}
	}
	if err != nil {
		return pets.Pet{}, fmt.Errorf("postgres: read pet %d version: %w", id, err)
	}
	return pets.Pet{}, &pets.ConcurrentModificationError{ID: id, Expected: p.Version(), Actual: actual}
}

func (r *PetsRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		id             int64
		rawName, rawSp string
		rawAge         sql.NullInt64
		rawOwner       sql.NullString
		version        int64
	)
	if err := s.Scan(&id, &rawName, &rawSp, &rawAge, &rawOwner, &version); err != nil {
		return pets.Pet{}, err
	}

	name, err := pets.NewName(rawName)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("postgres: pet %d: %w", id, err)
	}
	species, err := pets.NewSpecies(rawSp)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("postgres: pet %d: %w", id, err)
	}

	var age *pets.Age
	if rawAge.Valid {
		a, err := pets.NewAge(int(rawAge.Int64))
		if err != nil {
			return pets.Pet{}, fmt.Errorf("postgres: pet %d: %w", id, err)
		}
		age = &a
	}

	var owner *pets.OwnerName
	if rawOwner.Valid {
		o, err := pets.NewOwnerName(rawOwner.String)
		if err != nil {
			return pets.Pet{}, fmt.Errorf("postgres: pet %d: %w", id, err)
		}
		owner = &o
	}

	return pets.RestorePet(id, name, species, age, owner, version)
}

func nullables(p pets.Pet) (sql.NullInt64, sql.NullString) {
	var (
		age   sql.NullInt64
		owner sql.NullString
	)
	if a := p.AgePtr(); a != nil {
		age = sql.NullInt64{Int64: int64(a.Value()), Valid: true}
	}
	if o := p.OwnerNamePtr(); o != nil {
		owner = sql.NullString{String: o.Value(), Valid: true}
	}
	return age, owner
}
