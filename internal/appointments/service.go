package appointments

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-booking-api/internal/clinic"
	"github.com/wolfman30/clinic-booking-api/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

var appointmentsTracer = otel.Tracer("clinic.internal.appointments")

type store interface {
	ListAll(ctx context.Context) ([]Appointment, error)
	ListScheduledForPhone(ctx context.Context, phone string) ([]PatientAppointment, error)
	BookedTimes(ctx context.Context, doctorID int64, date string) ([]string, error)
	HasScheduledAt(ctx context.Context, doctorID int64, datetime string) (bool, error)
	Insert(ctx context.Context, doctorID *int64, patientID int64, datetime *string, status string) (int64, error)
	UpdateDateTime(ctx context.Context, id int64, datetime string) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
}

type patientStore interface {
	FindPatientByPhone(ctx context.Context, phone string) (*clinic.Patient, error)
	CreatePatient(ctx context.Context, name, phone *string) (int64, error)
}

// ServiceOptions tunes booking behaviour.
type ServiceOptions struct {
	// RejectDoubleBooking refuses a booking when the doctor already has a
	// scheduled appointment at the same datetime. Off by default.
	RejectDoubleBooking bool
	Metrics             *metrics.BookingMetrics
}

// Service implements listing, availability, booking and updates.
type Service struct {
	repo     store
	patients patientStore
	opts     ServiceOptions
	logger   *logging.Logger
}

// NewService constructs an appointments service.
func NewService(repo store, patients patientStore, opts ServiceOptions, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if patients == nil {
		panic("appointments: patient store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, patients: patients, opts: opts, logger: logger}
}

// ListAll returns every appointment row.
func (s *Service) ListAll(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAll(ctx)
}

// ListForPhone returns the scheduled appointments of the patient with phone.
func (s *Service) ListForPhone(ctx context.Context, phone string) ([]PatientAppointment, error) {
	return s.repo.ListScheduledForPhone(ctx, phone)
}

// Available returns the free hourly slots for the doctor on date.
func (s *Service) Available(ctx context.Context, doctorID int64, date string) ([]string, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.available")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("clinic.doctor_id", doctorID),
		attribute.String("clinic.date", date),
	)

	booked, err := s.repo.BookedTimes(ctx, doctorID, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return FreeSlots(date, booked), nil
}

// Book finds or creates the patient by phone and inserts a scheduled
// appointment. Under the reject policy the slot is checked before any patient
// is written. The two writes are independent; a failed appointment insert
// leaves the new patient in place.
func (s *Service) Book(ctx context.Context, req BookRequest) (*BookResponse, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()
	if req.DoctorID != nil {
		span.SetAttributes(attribute.Int64("clinic.doctor_id", *req.DoctorID))
	}

	if s.opts.RejectDoubleBooking && req.DoctorID != nil && req.DateTime != nil {
		taken, err := s.repo.HasScheduledAt(ctx, *req.DoctorID, *req.DateTime)
		if err != nil {
			span.RecordError(err)
			s.opts.Metrics.ObserveBooking("error")
			return nil, err
		}
		if taken {
			s.opts.Metrics.ObserveBooking("conflict")
			s.logger.Info("booking rejected: slot taken", "doctor_id", *req.DoctorID, "datetime", *req.DateTime)
			return nil, ErrSlotTaken
		}
	}

	patientID, err := s.resolvePatient(ctx, req.PatientName, req.PatientPhone)
	if err != nil {
		span.RecordError(err)
		s.opts.Metrics.ObserveBooking("error")
		return nil, err
	}
	span.SetAttributes(attribute.Int64("clinic.patient_id", patientID))

	id, err := s.repo.Insert(ctx, req.DoctorID, patientID, req.DateTime, StatusScheduled)
	if err != nil {
		span.RecordError(err)
		s.opts.Metrics.ObserveBooking("error")
		return nil, err
	}

	s.opts.Metrics.ObserveBooking("created")
	s.logger.Info("appointment booked", "appointment_id", id, "patient_id", patientID)
	return &BookResponse{AppointmentID: id, Status: StatusScheduled}, nil
}

// resolvePatient returns the id of the patient with phone, creating one when
// none exists. A concurrent insert of the same phone is resolved by looking
// the winner up again.
func (s *Service) resolvePatient(ctx context.Context, name, phone *string) (int64, error) {
	if phone != nil {
		p, err := s.patients.FindPatientByPhone(ctx, *phone)
		if err == nil {
			return p.ID, nil
		}
		if !errors.Is(err, clinic.ErrPatientNotFound) {
			return 0, err
		}
	}

	id, err := s.patients.CreatePatient(ctx, name, phone)
	if err == nil {
		s.opts.Metrics.ObservePatientCreated()
		return id, nil
	}
	if !errors.Is(err, clinic.ErrPatientExists) || phone == nil {
		return 0, err
	}

	s.logger.Debug("patient created concurrently, retrying lookup", "phone", *phone)
	p, err := s.patients.FindPatientByPhone(ctx, *phone)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Update applies the non-empty fields of req to appointment id. Each field
// is its own statement and a missing row is not reported.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*UpdateResponse, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.update")
	defer span.End()
	span.SetAttributes(attribute.Int64("clinic.appointment_id", id))

	s.opts.Metrics.ObserveUpdate()

	var changed int64
	if req.DateTime != nil && *req.DateTime != "" {
		n, err := s.repo.UpdateDateTime(ctx, id, *req.DateTime)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		changed += n
	}
	if req.Status != nil && *req.Status != "" {
		n, err := s.repo.UpdateStatus(ctx, id, *req.Status)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		changed += n
	}
	if changed == 0 {
		s.logger.Debug("appointment update matched no rows", "appointment_id", id)
	}
	return &UpdateResponse{AppointmentID: id, Updated: true}, nil
}
