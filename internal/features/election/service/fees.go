package service

import (
	"election-tool-backend/internal/common/errors"
	"election-tool-backend/internal/common/logger"
	"election-tool-backend/internal/features/election/models"
)

// RegionHint is the voter's location as reported by the gateway. Country is
// an ISO-3166 alpha-2 code; City is informational only.
type RegionHint struct {
	Country string
	City    string
}

// FeeQuote is the computed participation fee, already rounded to cents.
type FeeQuote struct {
	IsFree         bool    `json:"is_free"`
	BaseFee        float64 `json:"base_fee"`
	ProcessingFee  float64 `json:"processing_fee"`
	TotalFee       float64 `json:"total_fee"`
	Currency       string  `json:"currency"`
	Region         string  `json:"region,omitempty"`
	RegionFallback bool    `json:"region_fallback,omitempty"`
}

// CalculateFee computes the participation fee for a voter. For regional
// pricing the voter's country is mapped through the region table to one of
// the election's declared region codes; when nothing matches, the first
// declared price applies as an explicit, logged fallback.
func CalculateFee(e *models.Election, hint RegionHint) (*FeeQuote, error) {
	quote := &FeeQuote{Currency: DefaultCurrency}

	switch e.PricingType {
	case models.PricingFree:
		quote.IsFree = true
		return quote, nil

	case models.PricingGeneral:
		quote.BaseFee = models.RoundMoney(e.GeneralFee)

	case models.PricingRegional:
		if len(e.RegionalPrices) == 0 {
			return nil, errors.NewConfigurationError("regional pricing requires at least one regional price")
		}

		price, fallback := resolveRegionalPrice(e, hint)
		quote.BaseFee = models.RoundMoney(price.ParticipationFee)
		quote.Currency = price.Currency
		quote.Region = price.RegionCode
		quote.RegionFallback = fallback
		if fallback {
			logger.Warn().
				Str("election_id", e.ID).
				Str("country", hint.Country).
				Str("fallback_region", price.RegionCode).
				Msg("no regional price matched voter country, using first declared region")
		}

	default:
		return nil, errors.NewConfigurationError("unknown pricing_type: " + string(e.PricingType))
	}

	quote.ProcessingFee = models.RoundMoney(quote.BaseFee * e.ProcessingFeePercentage / 100)
	quote.TotalFee = models.RoundMoney(quote.BaseFee + quote.ProcessingFee)
	return quote, nil
}

func resolveRegionalPrice(e *models.Election, hint RegionHint) (models.RegionalPrice, bool) {
	if region, ok := models.RegionForCountry(hint.Country); ok {
		for _, rp := range e.RegionalPrices {
			if rp.RegionCode == region {
				return rp, false
			}
		}
	}
	return e.RegionalPrices[0], true
}
