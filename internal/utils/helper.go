package utils

import (
	"net/http"

	apperrors "github.com/modernshop/storefront-api/internal/errors"
	"github.com/modernshop/storefront-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// ParseAndValidate decodes the JSON body into dest and runs struct
// validation, writing the error response itself. Returns false when the
// handler should bail out.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, apperrors.ValidationError(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		response.Error(w, apperrors.ValidationError("Invalid input data").WithError(err))
		return false
	}

	return true
}
