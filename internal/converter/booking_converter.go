package converter

import (
	"longa/internal/delivery/dto"
	"longa/internal/domain/entity"
	"longa/internal/service"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:                  booking.ID,
		ServiceID:           booking.ServiceID,
		ServiceName:         booking.Service.Name,
		ClientID:            booking.ClientID,
		ProviderID:          booking.ProviderID,
		PackageItemID:       booking.PackageItemID,
		ScheduledDate:       booking.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:       booking.ScheduledTime,
		DurationMinutes:     booking.DurationMinutes,
		Location:            booking.Location,
		TotalAmount:         booking.TotalAmount,
		Status:              string(booking.Status),
		IsEmergency:         booking.IsEmergency,
		SpecialInstructions: booking.SpecialInstructions,
		AssignedAt:          booking.AssignedAt,
		CreatedAt:           booking.CreatedAt,
		UpdatedAt:           booking.UpdatedAt,
	}
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

func PayoutBreakdownToResponse(b *service.PayoutBreakdown) *dto.PayoutBreakdown {
	if b == nil {
		return nil
	}

	resp := &dto.PayoutBreakdown{
		Model:            string(b.Model),
		Commission:       b.Commission,
		ProviderEarnings: b.ProviderEarnings,
	}
	if b.CommissionPct.Valid {
		pct := b.CommissionPct.Decimal
		resp.CommissionPct = &pct
	}
	return resp
}

func AssignmentsToResponses(assignments []entity.BookingAssignment) []dto.BookingAssignmentResponse {
	responses := make([]dto.BookingAssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = dto.BookingAssignmentResponse{
			ID:           a.ID,
			BookingID:    a.BookingID,
			ProviderID:   a.ProviderID,
			ProviderName: a.Provider.FullName,
			AssignedBy:   a.AssignedBy,
			Reason:       a.Reason,
			AutoAssigned: a.AutoAssigned,
			CreatedAt:    a.CreatedAt,
		}
	}
	return responses
}

func CandidatesToResponses(candidates []entity.ProviderCandidate) []dto.ProviderCandidateResponse {
	responses := make([]dto.ProviderCandidateResponse, len(candidates))
	for i, c := range candidates {
		responses[i] = dto.ProviderCandidateResponse{
			ID:          c.ID,
			FullName:    c.FullName,
			Phone:       c.Phone,
			Location:    c.Location,
			IsAvailable: c.IsAvailable,
			Rating:      c.Rating,
		}
	}
	return responses
}
