package appointments

import "fmt"

const (
	firstSlotHour = 9
	lastSlotHour  = 16
)

// CandidateSlots returns the hourly slots 09:00 through 16:00 on date, in
// the same "YYYY-MM-DD HH:MM:SS" form as stored rows. date is not parsed.
func CandidateSlots(date string) []string {
	slots := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		slots = append(slots, fmt.Sprintf("%s %02d:00:00", date, hour))
	}
	return slots
}

// FreeSlots returns the candidate slots on date whose exact string is not in
// booked, preserving ascending hour order.
func FreeSlots(date string, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	free := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for _, slot := range CandidateSlots(date) {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}
