// Package validation wraps go-playground/validator with a JSON bind helper
// for plain net/http handlers.
package validation

import (
	"encoding/json"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/threadline/threadline/pkg/response"
)

var v = validatorv10.New()

// Bind decodes the JSON body into out and validates its struct tags.
// On failure it writes a 400 response and returns false so the handler can
// short-circuit.
func Bind(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := v.Struct(out); err != nil {
		response.ValidationError(w, errorsToMap(err))
		return false
	}

	return true
}

// Struct validates out without touching the response writer.
func Struct(out interface{}) error {
	return v.Struct(out)
}

func errorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.Field()] = "failed on rule: " + fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
