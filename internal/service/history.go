package service

import (
	"strings"

	"campusride/internal/domain"
)

// HistoryService reads the ride history snapshots of the session state.
type HistoryService struct {
	profile *ProfileService
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(profile *ProfileService) *HistoryService {
	return &HistoryService{profile: profile}
}

// Search returns history entries, newest first, whose counterpart, pickup or
// drop-off name contains query (case-insensitive). An empty query returns all.
func (s *HistoryService) Search(query string) []domain.RideHistoryEntry {
	entries := s.profile.State().RideHistory
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	result := make([]domain.RideHistoryEntry, 0, len(entries))
	for _, e := range entries {
		if matchesHistory(e, q) {
			result = append(result, e)
		}
	}
	return result
}

func matchesHistory(e domain.RideHistoryEntry, q string) bool {
	for _, field := range []string{e.PassengerName, e.RiderName, e.FromName, e.ToName} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
