package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"delivery-admin/core/apperr"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, http.StatusOK},
		{"Validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"RemoteNotFound", apperr.Remote(404, "Food not found"), http.StatusNotFound},
		{"RemoteConflict", apperr.Remote(409, "duplicate"), http.StatusConflict},
		{"RemoteServerError", apperr.Remote(500, "boom"), http.StatusBadGateway},
		{"Fetch", apperr.Fetch(errors.New("refused")), http.StatusBadGateway},
		{"Decode", apperr.Decode(errors.New("eof")), http.StatusBadGateway},
		{"Internal", apperr.Internal("overlap"), http.StatusInternalServerError},
		{"WrappedRemote", fmt.Errorf("create food: %w", apperr.Remote(422, "x")), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.HTTPStatus(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperr.IsNotFound(fmt.Errorf("delete: %w", apperr.Remote(404, ""))))
	assert.False(t, apperr.IsNotFound(apperr.Remote(409, "")))
	assert.False(t, apperr.IsNotFound(apperr.FetchStatus(404)))
	assert.False(t, apperr.IsNotFound(nil))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Food with name 'Soup' already exists", apperr.Message(apperr.Remote(409, "Food with name 'Soup' already exists")))
	assert.Equal(t, "invalid food (name: This field is required)",
		apperr.Message(apperr.Validation("invalid food", apperr.FieldError{Field: "name", Message: "This field is required"})))
	assert.Equal(t, "remote store unavailable: status 503", apperr.Message(apperr.FetchStatus(503)))
	assert.Empty(t, apperr.Message(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list food: %w", apperr.Fetch(cause))

	var fetch *apperr.FetchError
	assert.True(t, errors.As(err, &fetch))
	assert.ErrorIs(t, err, cause)
}
