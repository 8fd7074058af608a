package pets

import "fmt"

// Pet representa el registro de una mascota.
//
// Es un snapshot inmutable: los campos no se exportan y cada transición
// (asignar id, avanzar versión) devuelve una copia nueva. El repositorio es
// dueño de la copia canónica; los callers siempre trabajan con copias.
type Pet struct {
	id    int64
	hasID bool

	name    Name
	species Species

	age    Age
	hasAge bool

	owner    OwnerName
	hasOwner bool

	// version solo se usa para optimistic locking.
	version int64
}

// NewPet crea una mascota transient (sin id, version 0).
func NewPet(name Name, species Species, age *Age, owner *OwnerName) (Pet, error) {
	if err := requireMandatory(name, species); err != nil {
		return Pet{}, err
	}

	p := Pet{name: name, species: species}
	p.setOptionals(age, owner)
	return p, nil
}

// RestorePet reconstruye una mascota ya conocida por el store
// (post-load o para un update con la versión que el caller espera).
func RestorePet(id int64, name Name, species Species, age *Age, owner *OwnerName, version int64) (Pet, error) {
	if id <= 0 {
		return Pet{}, &InvalidValueError{Field: "id", Reason: "must be positive"}
	}
	if version < 0 {
		return Pet{}, &InvalidValueError{Field: "version", Reason: "must be greater than or equal to 0"}
	}
	if err := requireMandatory(name, species); err != nil {
		return Pet{}, err
	}

	p := Pet{id: id, hasID: true, name: name, species: species, version: version}
	p.setOptionals(age, owner)
	return p, nil
}

func requireMandatory(name Name, species Species) error {
	if name == (Name{}) {
		return &InvalidValueError{Field: "name", Reason: "is required"}
	}
	if species == (Species{}) {
		return &InvalidValueError{Field: "species", Reason: "is required"}
	}
	return nil
}

func (p *Pet) setOptionals(age *Age, owner *OwnerName) {
	if age != nil {
		p.age, p.hasAge = *age, true
	}
	if owner != nil {
		p.owner, p.hasOwner = *owner, true
	}
}

func (p Pet) ID() (int64, bool) { return p.id, p.hasID }
func (p Pet) IsTransient() bool { return !p.hasID }
func (p Pet) Name() Name        { return p.name }
func (p Pet) Species() Species  { return p.species }
func (p Pet) Age() (Age, bool)  { return p.age, p.hasAge }
func (p Pet) Version() int64    { return p.version }

func (p Pet) OwnerName() (OwnerName, bool) {
	return p.owner, p.hasOwner
}

// AgePtr / OwnerNamePtr devuelven copias (nil si falta); los usan los adapters SQL.
func (p Pet) AgePtr() *Age {
	if !p.hasAge {
		return nil
	}
	a := p.age
	return &a
}

func (p Pet) OwnerNamePtr() *OwnerName {
	if !p.hasOwner {
		return nil
	}
	o := p.owner
	return &o
}

// WithAssignedID devuelve la copia persistida con el id asignado por el store.
// Reasignar un id es un error de programación: entra en pánico.
func (p Pet) WithAssignedID(id int64) Pet {
	if p.hasID {
		panic(fmt.Sprintf("pets: cannot reassign id, pet already has id %d", p.id))
	}
	if id <= 0 {
		panic(fmt.Sprintf("pets: invalid id %d", id))
	}
	p.id, p.hasID = id, true
	return p
}

// WithNextVersion devuelve la copia con version+1.
func (p Pet) WithNextVersion() Pet {
	p.version++
	return p
}

// WithVersion devuelve la copia con la versión autoritativa leída del store.
func (p Pet) WithVersion(v int64) Pet {
	p.version = v
	return p
}

func (p Pet) String() string {
	id := "nil"
	if p.hasID {
		id = fmt.Sprint(p.id)
	}
	return fmt.Sprintf("Pet{id=%s, name=%q, species=%q, version=%d}", id, p.name.value, p.species.value, p.version)
}
