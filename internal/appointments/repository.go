package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/wolfman30/clinic-booking-api/internal/storage"
)

// Repository provides persistence helpers for appointments.
type Repository struct {
	backend storage.Backend
	sql     goqu.DialectWrapper
}

// NewRepository creates a repository on the given backend.
func NewRepository(backend storage.Backend) *Repository {
	if backend == nil {
		panic("appointments: storage backend required")
	}
	return &Repository{backend: backend, sql: backend.Dialect().Builder()}
}

// ListAll returns every appointment regardless of status, in id order.
func (r *Repository) ListAll(ctx context.Context) ([]Appointment, error) {
	query, args, err := r.sql.From("appointments").
		Select("id", "doctor_id", "patient_id", "datetime", "status").
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("appointments: build list query: %w", err)
	}

	rows, err := r.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	out := make([]Appointment, 0)
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.DateTime, &a.Status); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	return out, nil
}

// ListScheduledForPhone returns the scheduled appointments of the patient
// with the given phone, soonest first. An unknown phone yields no rows.
func (r *Repository) ListScheduledForPhone(ctx context.Context, phone string) ([]PatientAppointment, error) {
	query, args, err := r.sql.From(goqu.T("appointments").As("a")).
		Join(goqu.T("doctors").As("d"), goqu.On(goqu.I("a.doctor_id").Eq(goqu.I("d.id")))).
		Join(goqu.T("patients").As("p"), goqu.On(goqu.I("a.patient_id").Eq(goqu.I("p.id")))).
		Select(goqu.I("a.id"), goqu.I("d.name").As("doctor_name"), goqu.I("a.datetime"), goqu.I("a.status")).
		Where(
			goqu.I("p.phone").Eq(phone),
			goqu.I("a.status").Eq(StatusScheduled),
		).
		Order(goqu.I("a.datetime").Asc(), goqu.I("a.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("appointments: build phone query: %w", err)
	}

	rows, err := r.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list for phone: %w", err)
	}
	defer rows.Close()

	out := make([]PatientAppointment, 0)
	for rows.Next() {
		var a PatientAppointment
		if err := rows.Scan(&a.ID, &a.DoctorName, &a.DateTime, &a.Status); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list for phone: %w", err)
	}
	return out, nil
}

// BookedTimes returns the datetimes of the doctor's scheduled appointments
// whose first ten characters equal date.
func (r *Repository) BookedTimes(ctx context.Context, doctorID int64, date string) ([]string, error) {
	query, args, err := r.sql.From("appointments").
		Select("datetime").
		Where(
			goqu.C("doctor_id").Eq(doctorID),
			goqu.L("substr(?, 1, 10)", goqu.C("datetime")).Eq(date),
			goqu.C("status").Eq(StatusScheduled),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("appointments: build booked query: %w", err)
	}

	rows, err := r.backend.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	defer rows.Close()

	var booked []string
	for rows.Next() {
		var dt string
		if err := rows.Scan(&dt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		booked = append(booked, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	return booked, nil
}

// HasScheduledAt reports whether the doctor already holds a scheduled
// appointment at exactly datetime.
func (r *Repository) HasScheduledAt(ctx context.Context, doctorID int64, datetime string) (bool, error) {
	query, args, err := r.sql.From("appointments").
		Select("id").
		Where(
			goqu.C("doctor_id").Eq(doctorID),
			goqu.C("datetime").Eq(datetime),
			goqu.C("status").Eq(StatusScheduled),
		).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("appointments: build conflict query: %w", err)
	}

	var id int64
	if err := r.backend.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("appointments: conflict check: %w", err)
	}
	return true, nil
}

// Insert creates an appointment and returns its id. Nil values are written
// as NULL and left to the schema's constraints.
func (r *Repository) Insert(ctx context.Context, doctorID *int64, patientID int64, datetime *string, status string) (int64, error) {
	ds := r.sql.Insert("appointments").
		Cols("doctor_id", "patient_id", "datetime", "status").
		Vals(goqu.Vals{nullableID(doctorID), patientID, nullableString(datetime), status})
	if r.backend.Dialect().SupportsReturning() {
		ds = ds.Returning("id")
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("appointments: build insert: %w", err)
	}

	id, err := r.backend.InsertID(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("appointments: insert: %w", err)
	}
	return id, nil
}

// UpdateDateTime sets the datetime of appointment id and returns the number
// of rows changed.
func (r *Repository) UpdateDateTime(ctx context.Context, id int64, datetime string) (int64, error) {
	return r.update(ctx, id, goqu.Record{"datetime": datetime})
}

// UpdateStatus sets the status of appointment id and returns the number of
// rows changed.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	return r.update(ctx, id, goqu.Record{"status": status})
}

func (r *Repository) update(ctx context.Context, id int64, rec goqu.Record) (int64, error) {
	query, args, err := r.sql.Update("appointments").
		Set(rec).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("appointments: build update: %w", err)
	}
	n, err := r.backend.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("appointments: update %d: %w", id, err)
	}
	return n, nil
}

// NextScheduledForPatient returns the patient's soonest scheduled appointment
// or ErrNoUpcoming.
func (r *Repository) NextScheduledForPatient(ctx context.Context, patientID int64) (*Upcoming, error) {
	query, args, err := r.sql.From(goqu.T("appointments").As("a")).
		Join(goqu.T("doctors").As("d"), goqu.On(goqu.I("a.doctor_id").Eq(goqu.I("d.id")))).
		Select(goqu.I("a.id"), goqu.I("d.name"), goqu.I("a.datetime")).
		Where(
			goqu.I("a.patient_id").Eq(patientID),
			goqu.I("a.status").Eq(StatusScheduled),
		).
		Order(goqu.I("a.datetime").Asc(), goqu.I("a.id").Asc()).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("appointments: build upcoming query: %w", err)
	}

	var u Upcoming
	if err := r.backend.QueryRow(ctx, query, args...).Scan(&u.ID, &u.DoctorName, &u.DateTime); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNoUpcoming
		}
		return nil, fmt.Errorf("appointments: upcoming for patient %d: %w", patientID, err)
	}
	return &u, nil
}

func nullableID(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
