package service

import (
	"errors"

	"longa/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var (
	ErrProviderFeeMissing   = errors.New("subscription service has no provider fee configured")
	ErrInvalidCommissionPct = errors.New("commission percentage must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

// PayoutBreakdown is the split of one booking total between platform and provider.
type PayoutBreakdown struct {
	Model            entity.ServiceType
	TotalAmount      decimal.Decimal
	CommissionPct    decimal.NullDecimal
	Commission       decimal.Decimal
	ProviderEarnings decimal.Decimal
}

// PayoutCalculator derives job payouts. It performs no I/O and holds no
// mutable state, so one instance is shared by all requests.
type PayoutCalculator struct {
	defaultCommissionPct decimal.Decimal
}

func NewPayoutCalculator(defaultCommissionPct float64) *PayoutCalculator {
	return &PayoutCalculator{defaultCommissionPct: decimal.NewFromFloat(defaultCommissionPct)}
}

// Commission splits a one-off total. Commission is rounded to a whole
// currency unit, half away from zero, and earnings take the remainder so the
// two always add back up to total.
func (c *PayoutCalculator) Commission(total decimal.Decimal, pct *decimal.Decimal) (*PayoutBreakdown, error) {
	rate := c.defaultCommissionPct
	if pct != nil {
		rate = *pct
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return nil, ErrInvalidCommissionPct
	}

	commission := total.Mul(rate).Div(hundred).Round(0)
	return &PayoutBreakdown{
		Model:            entity.ServiceTypeOneOff,
		TotalAmount:      total,
		CommissionPct:    decimal.NewNullDecimal(rate),
		Commission:       commission,
		ProviderEarnings: total.Sub(commission),
	}, nil
}

// FixedFee splits a package job: the provider gets the configured fee and
// the platform keeps what is left, never less than zero.
func (c *PayoutCalculator) FixedFee(total, fee decimal.Decimal) *PayoutBreakdown {
	commission := total.Sub(fee)
	if commission.IsNegative() {
		commission = decimal.Zero
	}
	return &PayoutBreakdown{
		Model:            entity.ServiceTypeSubscription,
		TotalAmount:      total,
		Commission:       commission,
		ProviderEarnings: fee,
	}
}

// Derive picks the payout model from the service type. item is the package
// inclusion line the booking was made against and may be nil.
func (c *PayoutCalculator) Derive(booking *entity.Booking, svc *entity.Service, item *entity.ServicePackageItem) (*PayoutBreakdown, error) {
	if svc.Type != entity.ServiceTypeSubscription {
		return c.Commission(booking.TotalAmount, svc.CommissionPercentage)
	}

	switch {
	case item != nil:
		return c.FixedFee(booking.TotalAmount, item.ProviderFeePerJob), nil
	case svc.ProviderFee != nil:
		return c.FixedFee(booking.TotalAmount, *svc.ProviderFee), nil
	default:
		return nil, ErrProviderFeeMissing
	}
}
