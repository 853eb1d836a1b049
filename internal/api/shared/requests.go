package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct. An empty body
// is an error since every decoded request here carries required fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks the struct's validate tags. Handlers call this
// before any provider delegation so requests with missing fields never
// leave the process.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
