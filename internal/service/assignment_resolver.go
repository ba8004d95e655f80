package service

import (
	"sort"
	"strings"

	"longa/internal/domain/entity"

	"github.com/google/uuid"
)

// Availability filter values
const (
	AvailabilityAny         = ""
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
)

// CandidateFilter narrows the provider pool shown for a booking.
type CandidateFilter struct {
	Search       string
	Location     string
	Availability string
}

// AssignmentResolver filters and ranks provider candidates. It never touches
// the store; callers hand it the active pool.
type AssignmentResolver struct{}

func NewAssignmentResolver() *AssignmentResolver {
	return &AssignmentResolver{}
}

// Resolve returns the candidates eligible for currentProvider's booking,
// best rated first. The current provider is never offered, and candidates
// with equal rating keep pool order.
func (r *AssignmentResolver) Resolve(pool []entity.ProviderCandidate, currentProvider *uuid.UUID, filter CandidateFilter) []entity.ProviderCandidate {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]entity.ProviderCandidate, 0, len(pool))
	for _, c := range pool {
		if currentProvider != nil && c.ID == *currentProvider {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.FullName), search) &&
			!strings.Contains(strings.ToLower(c.Phone), search) {
			continue
		}
		if filter.Location != "" && c.Location != filter.Location {
			continue
		}
		switch filter.Availability {
		case AvailabilityAvailable:
			if !c.IsAvailable {
				continue
			}
		case AvailabilityUnavailable:
			if c.IsAvailable {
				continue
			}
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating.GreaterThan(out[j].Rating)
	})
	return out
}

// Contains reports whether providerID is in the pool.
func (r *AssignmentResolver) Contains(pool []entity.ProviderCandidate, providerID uuid.UUID) bool {
	for _, c := range pool {
		if c.ID == providerID {
			return true
		}
	}
	return false
}

// ValidAvailability reports whether v is an accepted availability filter.
func ValidAvailability(v string) bool {
	return v == AvailabilityAny || v == AvailabilityAvailable || v == AvailabilityUnavailable
}
