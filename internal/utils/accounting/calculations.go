package accounting

import (
	"fmt"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of decimals kept for COP and Bs amounts.
const AmountPrecision = 2

// RatePrecision is the number of decimals stored for sale and purchase rates.
const RatePrecision = 6

var (
	// DefaultCommission applies when a seller has no configured percentage.
	DefaultCommission = decimal.NewFromInt(2)
	// VenezuelaCustomRateCommission applies to Venezuela-affiliated sellers using a custom rate.
	VenezuelaCustomRateCommission = decimal.NewFromInt(4)

	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// BsFromCOP converts pesos to bolívares: amountBs = amountCOP / rate.
func BsFromCOP(amountCOP, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	return amountCOP.DivRound(rate, AmountPrecision+4).Round(AmountPrecision), nil
}

// COPFromBs converts bolívares to pesos: amountCOP = amountBs x rate.
func COPFromBs(amountBs, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	return amountBs.Mul(rate).Round(AmountPrecision), nil
}

// ResolveAmounts derives the missing side of a COP/Bs pair.
// Exactly one of amountCOP and amountBs must be supplied and positive.
func ResolveAmounts(amountCOP, amountBs *decimal.Decimal, rate decimal.Decimal) (cop decimal.Decimal, bs decimal.Decimal, err error) {
	switch {
	case amountCOP != nil && amountBs != nil:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: supply either amountCOP or amountBs, not both", apperrors.ErrValidation)
	case amountCOP != nil:
		if !amountCOP.IsPositive() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: amountCOP must be positive", apperrors.ErrValidation)
		}
		cop = amountCOP.Round(AmountPrecision)
		bs, err = BsFromCOP(cop, rate)
		return cop, bs, err
	case amountBs != nil:
		if !amountBs.IsPositive() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: amountBs must be positive", apperrors.ErrValidation)
		}
		bs = amountBs.Round(AmountPrecision)
		cop, err = COPFromBs(bs, rate)
		return cop, bs, err
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: amountCOP or amountBs is required", apperrors.ErrValidation)
	}
}

// ValidateCustomRate rejects a seller rate that is not positive or that would
// lose precision once stored.
func ValidateCustomRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: customRate must be positive", apperrors.ErrValidation)
	}
	if !rate.Equal(rate.Round(RatePrecision)) {
		return fmt.Errorf("%w: customRate allows at most %d decimal places", apperrors.ErrValidation, RatePrecision)
	}
	return nil
}

// ActiveRate picks the seller's custom rate when present, else the official one.
func ActiveRate(customRate *decimal.Decimal, official domain.RateQuote) (rate decimal.Decimal, isCustom bool, err error) {
	if customRate != nil {
		if err := ValidateCustomRate(*customRate); err != nil {
			return decimal.Zero, false, err
		}
		return *customRate, true, nil
	}
	if !official.SaleRate.IsPositive() {
		return decimal.Zero, false, fmt.Errorf("%w: no official sale rate configured", apperrors.ErrValidation)
	}
	return official.SaleRate, false, nil
}

// CommissionFor returns the percentage to freeze into a new transaction created by actor.
// App clients originate their own transfers and earn nothing.
func CommissionFor(actor domain.Actor, hasCustomRate bool) decimal.Decimal {
	if actor.Role == domain.RoleClient {
		return decimal.Zero
	}
	if actor.BelongsToVenezuelaAdmin() && hasCustomRate {
		return VenezuelaCustomRateCommission
	}
	if actor.CommissionRate != nil {
		return *actor.CommissionRate
	}
	return DefaultCommission
}

// CommissionAmount is amountCOP x percentage / 100.
func CommissionAmount(amountCOP, percentage decimal.Decimal) decimal.Decimal {
	return amountCOP.Mul(percentage).Div(hundred)
}

// ComputeProfit is the single profit/debt formula shared by every report:
//
//	investment            = amountBs x purchaseRate
//	systemProfit          = amountCOP - investment
//	colombiaProfit        = systemProfit / 2
//	venezuelaProfit       = systemProfit / 2
//	colombiaOwesVenezuela = investment + venezuelaProfit
func ComputeProfit(amountCOP, amountBs, purchaseRate decimal.Decimal) domain.ProfitBreakdown {
	investment := amountBs.Mul(purchaseRate)
	systemProfit := amountCOP.Sub(investment)
	half := systemProfit.Div(two)
	return domain.ProfitBreakdown{
		Investment:            investment,
		SystemProfit:          systemProfit,
		ColombiaProfit:        half,
		VenezuelaProfit:       half,
		ColombiaOwesVenezuela: investment.Add(half),
	}
}
