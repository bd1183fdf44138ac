package appointments

import "errors"

var (
	// ErrMissingDoctor is returned when doctor_id is absent from an availability query
	ErrMissingDoctor = errors.New("doctor_id is required")

	// ErrInvalidDoctor is returned when doctor_id is not an integer
	ErrInvalidDoctor = errors.New("doctor_id must be an integer")

	// ErrMissingDate is returned when date is absent from an availability query
	ErrMissingDate = errors.New("date is required")

	// ErrSlotTaken is returned when the reject conflict policy finds the doctor already booked
	ErrSlotTaken = errors.New("doctor already has a scheduled appointment at that time")

	// ErrNoUpcoming is returned when a patient has no scheduled appointment
	ErrNoUpcoming = errors.New("no upcoming appointment")
)
