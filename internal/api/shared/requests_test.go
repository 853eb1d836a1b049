package shared

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		target      interface{}
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid json",
			requestBody: `{"email": "a@b.com", "password": "secret123"}`,
			target: &struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}{},
			wantErr: false,
		},
		{
			name:        "invalid json",
			requestBody: `{"email": "a@b.com",}`, // trailing comma
			target:      &struct{}{},
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "empty body",
			requestBody: "",
			target:      &struct{}{},
			wantErr:     true,
			errContains: "EOF",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(
				http.MethodPost,
				"/test",
				bytes.NewBufferString(tc.requestBody),
			)

			err := DecodeJSON(req, tc.target)

			if tc.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}

			assert.NoError(t, err)
			if tc.name == "valid json" {
				data := tc.target.(*struct {
					Email    string `json:"email"`
					Password string `json:"password"`
				})
				assert.Equal(t, "a@b.com", data.Email)
				assert.Equal(t, "secret123", data.Password)
			}
		})
	}
}

// errorReader returns a read error to exercise decode failures that are not
// JSON syntax errors.
type errorReader struct{}

func (er errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})

	var target struct{}
	err := DecodeJSON(req, &target)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestValidateRequest(t *testing.T) {
	type credentials struct {
		Email    string `validate:"required"`
		Password string `validate:"required"`
	}

	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{
			name:    "all required fields present",
			req:     &credentials{Email: "a@b.com", Password: "secret123"},
			wantErr: false,
		},
		{
			name:    "missing password",
			req:     &credentials{Email: "a@b.com"},
			wantErr: true,
		},
		{
			name:    "missing email",
			req:     &credentials{Password: "secret123"},
			wantErr: true,
		},
		{
			name:    "struct without validate tags",
			req:     &struct{ Name string }{"test"},
			wantErr: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
