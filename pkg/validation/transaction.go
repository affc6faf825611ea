// Package validation checks incoming transaction payloads before any store
// access happens.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// validator.Validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Postgres text columns cannot store NUL.
	v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateTransaction returns the normalized transaction described by req or a
// *domain.ValidationError naming the first offending field.
func ValidateTransaction(req domain.TransactionRequest) (domain.Transaction, error) {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.Transaction{}, toValidationError(fieldErrs[0])
		}
		return domain.Transaction{}, domain.NewValidationError("payload", err.Error())
	}

	return domain.Transaction{
		Amount:      *req.Amount,
		Type:        domain.TransactionType(req.Type),
		Description: req.Description,
	}, nil
}

func toValidationError(fe validator.FieldError) *domain.ValidationError {
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(fe.Field(), "is required")
	case "gte":
		return domain.NewValidationError(fe.Field(), "must not be negative")
	case "lte":
		return domain.NewValidationError(fe.Field(), "must be at most "+fe.Param())
	case "oneof":
		return domain.NewValidationError(fe.Field(), domain.ErrUnknownBankTransactionType.Error())
	case "nonul":
		return domain.NewValidationError(fe.Field(), "must not contain NUL characters")
	case "max":
		return domain.NewValidationError(fe.Field(), "must have at most "+fe.Param()+" characters")
	default:
		return domain.NewValidationError(fe.Field(), "failed on "+fe.Tag())
	}
}
