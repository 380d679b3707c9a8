package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/safetrip/safetrip/internal/api/models"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 64 << 10

var errInvalidJSON = errors.New("invalid JSON body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. An empty body is
// treated as {} so that missing fields surface as validation errors.
// Field errors are returned separately from malformed input.
func decode(r *http.Request, dst any) ([]models.FieldError, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return nil, errInvalidJSON
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return toFieldErrors(verrs), nil
		}
		return nil, err
	}
	return nil, nil
}

func toFieldErrors(verrs validator.ValidationErrors) []models.FieldError {
	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
			Code:    fieldCode(fe.Tag()),
		})
	}
	return out
}

// fieldPath drops the root struct name: "SOSRequest.location.latitude" -> "location.latitude".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "alpha":
		return "must contain letters only"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func fieldCode(tag string) string {
	switch tag {
	case "required":
		return "REQUIRED"
	case "gte", "lte":
		return "OUT_OF_RANGE"
	default:
		return "INVALID"
	}
}

// onlyMissing reports whether every field error is a missing value.
func onlyMissing(errs []models.FieldError) bool {
	for _, e := range errs {
		if e.Code != "REQUIRED" {
			return false
		}
	}
	return true
}
