package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithBodyAndStatus(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
		code int
		want string
	}{
		{name: "string", body: "All OK", code: http.StatusOK, want: "\"All OK\"\n"},
		{name: "list", body: []string{"Row 2: bad"}, code: http.StatusInternalServerError, want: "[\"Row 2: bad\"]\n"},
		{name: "nil", body: nil, code: http.StatusBadRequest, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WithBodyAndStatus(tc.body, tc.code, rec)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}
