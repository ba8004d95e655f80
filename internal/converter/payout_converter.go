package converter

import (
	"longa/internal/delivery/dto"
	"longa/internal/domain/entity"
)

func PayoutToResponse(payout *entity.Payout) *dto.PayoutResponse {
	if payout == nil {
		return nil
	}

	resp := &dto.PayoutResponse{
		ID:                payout.ID,
		ProviderID:        payout.ProviderID,
		PayeeName:         payout.PayeeName,
		PayeeAccount:      payout.PayeeAccount,
		BookingID:         payout.BookingID,
		Amount:            payout.Amount,
		PayoutType:        string(payout.PayoutType),
		Status:            string(payout.Status),
		ScheduledDate:     payout.ScheduledDate.Format("2006-01-02"),
		ProcessedAt:       payout.ProcessedAt,
		ExternalReference: payout.ExternalReference,
		Notes:             payout.Notes,
		CreatedAt:         payout.CreatedAt,
		UpdatedAt:         payout.UpdatedAt,
	}
	if payout.NetAmount.Valid {
		net := payout.NetAmount.Decimal
		resp.NetAmount = &net
	}
	return resp
}

func PayoutsToResponses(payouts []entity.Payout) []dto.PayoutResponse {
	responses := make([]dto.PayoutResponse, len(payouts))
	for i := range payouts {
		responses[i] = *PayoutToResponse(&payouts[i])
	}
	return responses
}
