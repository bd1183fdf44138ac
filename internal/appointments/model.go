package appointments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StatusScheduled is the status given to every new appointment.
const StatusScheduled = "scheduled"

// Appointment is a row of the appointments table. DateTime is an opaque
// "YYYY-MM-DD HH:MM:SS" string; Status is free-form.
type Appointment struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctor_id"`
	PatientID int64  `json:"patient_id"`
	DateTime  string `json:"datetime"`
	Status    string `json:"status"`
}

// PatientAppointment is a scheduled appointment joined with its doctor.
type PatientAppointment struct {
	ID         int64  `json:"id"`
	DoctorName string `json:"doctor_name"`
	DateTime   string `json:"datetime"`
	Status     string `json:"status"`
}

// BookRequest is the body of POST /appointments. Absent fields stay nil and
// are written as NULL.
type BookRequest struct {
	DoctorID     *int64  `json:"doctor_id"`
	PatientPhone *string `json:"patient_phone"`
	PatientName  *string `json:"patient_name"`
	DateTime     *string `json:"datetime"`
}

// UnmarshalJSON decodes a booking body, coercing doctor_id from a JSON
// number or a numeric string. Fractional or non-numeric ids are rejected.
func (r *BookRequest) UnmarshalJSON(data []byte) error {
	type plain BookRequest
	aux := struct {
		*plain
		DoctorID json.RawMessage `json:"doctor_id"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := coerceDoctorID(aux.DoctorID)
	if err != nil {
		return err
	}
	r.DoctorID = id
	return nil
}

func coerceDoctorID(raw json.RawMessage) (*int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
	}

	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &id, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("appointments: doctor_id %s is not an integer", raw)
	}
	id := int64(f)
	return &id, nil
}

// BookResponse is returned with 201 on a successful booking.
type BookResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
}

// UpdateRequest is the body of PUT /appointments/{id}. Nil or empty fields
// are left untouched.
type UpdateRequest struct {
	DateTime *string `json:"datetime"`
	Status   *string `json:"status"`
}

// UpdateResponse is returned for every update, whether or not a row matched.
type UpdateResponse struct {
	AppointmentID int64 `json:"appointment_id"`
	Updated       bool  `json:"updated"`
}

// AvailabilityResponse lists the free slots for a doctor on a date.
type AvailabilityResponse struct {
	AvailableSlots []string `json:"available_slots"`
}

// Upcoming is a patient's soonest scheduled appointment.
type Upcoming struct {
	ID         int64
	DoctorName string
	DateTime   string
}
