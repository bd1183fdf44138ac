package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/wolfman30/clinic-booking-api/internal/storage"
)

// Repository reads and writes doctors and patients.
type Repository struct {
	backend storage.Backend
	sql     goqu.DialectWrapper
}

// NewRepository creates a repository on the given backend.
func NewRepository(backend storage.Backend) *Repository {
	if backend == nil {
		panic("clinic: storage backend required")
	}
	return &Repository{backend: backend, sql: backend.Dialect().Builder()}
}

// ListDoctors returns every doctor in id order.
func (r *Repository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	query, args, err := r.sql.From("doctors").
		Select("id", "name", "specialty").
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("clinic: build doctors query: %w", err)
	}

	rows, err := r.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("clinic: list doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]Doctor, 0)
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty); err != nil {
			return nil, fmt.Errorf("clinic: scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinic: list doctors: %w", err)
	}
	return doctors, nil
}

// ListPatients returns every patient in id order.
func (r *Repository) ListPatients(ctx context.Context) ([]Patient, error) {
	query, args, err := r.sql.From("patients").
		Select("id", "name", "phone").
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("clinic: build patients query: %w", err)
	}

	rows, err := r.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("clinic: list patients: %w", err)
	}
	defer rows.Close()

	patients := make([]Patient, 0)
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone); err != nil {
			return nil, fmt.Errorf("clinic: scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinic: list patients: %w", err)
	}
	return patients, nil
}

// FindPatientByPhone looks a patient up by exact phone match.
func (r *Repository) FindPatientByPhone(ctx context.Context, phone string) (*Patient, error) {
	query, args, err := r.sql.From("patients").
		Select("id", "name", "phone").
		Where(goqu.C("phone").Eq(phone)).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("clinic: build patient lookup: %w", err)
	}

	var p Patient
	if err := r.backend.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Phone); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("clinic: find patient by phone: %w", err)
	}
	return &p, nil
}

// CreatePatient inserts a patient and returns its id. Nil values are written
// as NULL and left to the schema's constraints.
func (r *Repository) CreatePatient(ctx context.Context, name, phone *string) (int64, error) {
	ds := r.sql.Insert("patients").
		Cols("name", "phone").
		Vals(goqu.Vals{nullable(name), nullable(phone)})
	if r.backend.Dialect().SupportsReturning() {
		ds = ds.Returning("id")
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("clinic: build patient insert: %w", err)
	}

	id, err := r.backend.InsertID(ctx, query, args...)
	if err != nil {
		if r.backend.IsUniqueViolation(err) {
			return 0, ErrPatientExists
		}
		return 0, fmt.Errorf("clinic: insert patient: %w", err)
	}
	return id, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
