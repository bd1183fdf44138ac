package storage

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// SeedDoctor, SeedPatient and SeedAppointment describe the fixture rows
// inserted into an empty database.
type SeedDoctor struct {
	Name      string
	Specialty string
}

type SeedPatient struct {
	Name  string
	Phone string
}

type SeedAppointment struct {
	DoctorID  int64
	PatientID int64
	DateTime  string
	Status    string
}

// Patient phones are stored without a leading "+"; see DESIGN.md.
var (
	SeedDoctors = []SeedDoctor{
		{Name: "Dr. Smith", Specialty: "General Practice"},
		{Name: "Dr. Jones", Specialty: "Cardiology"},
		{Name: "Dr. Williams", Specialty: "Pediatrics"},
	}
	SeedPatients = []SeedPatient{
		{Name: "Alice", Phone: "1-555-0101"},
		{Name: "Bobby", Phone: "1-555-0102"},
		{Name: "Charlie", Phone: "1-555-0103"},
	}
	SeedAppointments = []SeedAppointment{
		{DoctorID: 1, PatientID: 1, DateTime: "2025-12-08 13:00:00", Status: "scheduled"},
		{DoctorID: 1, PatientID: 2, DateTime: "2025-12-08 14:00:00", Status: "scheduled"},
		{DoctorID: 3, PatientID: 3, DateTime: "2025-12-08 15:00:00", Status: "scheduled"},
	}
)

// Seed inserts the fixture rows when the doctors table is empty. It reports
// whether rows were written. All inserts commit together.
func Seed(ctx context.Context, b Backend) (bool, error) {
	d := b.Dialect().Builder()

	countSQL, countArgs, err := d.From("doctors").Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return false, fmt.Errorf("storage: build doctor count: %w", err)
	}
	var count int64
	if err := b.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
		return false, fmt.Errorf("storage: count doctors: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	statements := make([]*goqu.InsertDataset, 0, len(SeedDoctors)+len(SeedPatients)+len(SeedAppointments))
	for _, doc := range SeedDoctors {
		statements = append(statements, d.Insert("doctors").
			Cols("name", "specialty").
			Vals(goqu.Vals{doc.Name, doc.Specialty}))
	}
	for _, p := range SeedPatients {
		statements = append(statements, d.Insert("patients").
			Cols("name", "phone").
			Vals(goqu.Vals{p.Name, p.Phone}))
	}
	for _, a := range SeedAppointments {
		statements = append(statements, d.Insert("appointments").
			Cols("doctor_id", "patient_id", "datetime", "status").
			Vals(goqu.Vals{a.DoctorID, a.PatientID, a.DateTime, a.Status}))
	}

	err = b.InTx(ctx, func(q Querier) error {
		for _, ds := range statements {
			query, args, err := ds.Prepared(true).ToSQL()
			if err != nil {
				return fmt.Errorf("storage: build seed insert: %w", err)
			}
			if _, err := q.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("storage: seed insert: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
