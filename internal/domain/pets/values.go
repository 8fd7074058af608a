package pets

import "strings"

// Name es el nombre de la mascota. Nunca vacío ni solo espacios.
type Name struct{ value string }

func NewName(v string) (Name, error) {
	if strings.TrimSpace(v) == "" {
		return Name{}, &InvalidValueError{Field: "name", Reason: "cannot be empty or blank"}
	}
	return Name{value: v}, nil
}

func (n Name) Value() string { return n.value }

// Species es texto libre (a diferencia del enum dog/cat de otros módulos).
type Species struct{ value string }

func NewSpecies(v string) (Species, error) {
	if strings.TrimSpace(v) == "" {
		return Species{}, &InvalidValueError{Field: "species", Reason: "cannot be empty or blank"}
	}
	return Species{value: v}, nil
}

func (s Species) Value() string { return s.value }

// Age en años, no negativa.
type Age struct{ value int }

func NewAge(v int) (Age, error) {
	if v < 0 {
		return Age{}, &InvalidValueError{Field: "age", Reason: "must be greater than or equal to 0"}
	}
	return Age{value: v}, nil
}

// AgeFromPtr: nil => edad desconocida (nil, nil).
func AgeFromPtr(v *int) (*Age, error) {
	if v == nil {
		return nil, nil
	}
	a, err := NewAge(*v)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (a Age) Value() int { return a.value }

// OwnerName es el nombre de la persona dueña.
type OwnerName struct{ value string }

func NewOwnerName(v string) (OwnerName, error) {
	if strings.TrimSpace(v) == "" {
		return OwnerName{}, &InvalidValueError{Field: "owner_name", Reason: "cannot be empty or blank"}
	}
	return OwnerName{value: v}, nil
}

// OwnerNameFromPtr: nil => dueño desconocido (nil, nil).
// Un string presente pero en blanco es inválido.
func OwnerNameFromPtr(v *string) (*OwnerName, error) {
	if v == nil {
		return nil, nil
	}
	o, err := NewOwnerName(*v)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (o OwnerName) Value() string { return o.value }
