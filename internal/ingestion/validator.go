package ingestion

import (
	"intake/internal/constants"
	"intake/pkg/errors"
	"intake/pkg/models"
)

// ValidateItem applies the ingestion checks for the generic item pipeline.
func ValidateItem(msg models.ItemMessage) error {
	if msg.CustomerID <= 0 {
		return errors.ErrValidation.WithDetail("message", "invalid customer id")
	}
	return nil
}

// ValidateQuote applies the ingestion checks for quote requests. Checks run
// in order and the first failure wins.
func ValidateQuote(msg models.QuoteMessage) error {
	if msg.Name == "" {
		return errors.ErrValidation.WithDetail("message", "missing name")
	}
	if msg.Email == "" {
		return errors.ErrValidation.WithDetail("message", "missing email")
	}
	if msg.CarType == "" {
		return errors.ErrValidation.WithDetail("message", "missing car type")
	}
	if msg.CreditScoreEstimate < constants.MinCreditScore {
		return errors.ErrValidation.WithDetail("message", "credit score is too low")
	}
	if msg.CreditScoreEstimate > constants.MaxCreditScore {
		return errors.ErrValidation.WithDetail("message", "credit score must not exceed 850")
	}
	return nil
}
