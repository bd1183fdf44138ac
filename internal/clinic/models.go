// Package clinic serves the clinic's doctor roster and patient directory.
package clinic

import "errors"

// Doctor is a row of the doctors table.
type Doctor struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Specialty *string `json:"specialty"`
}

// Patient is a row of the patients table. Phone is the external identity key.
type Patient struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var (
	// ErrPatientNotFound is returned when no patient has the requested phone.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrPatientExists is returned when a patient with the phone was created concurrently.
	ErrPatientExists = errors.New("patient already exists")
)
