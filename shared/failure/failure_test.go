package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"inap/shared/constant"
	"inap/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("guests must be positive")), code: http.StatusBadRequest, message: "guests must be positive"},
		{name: "bad request from string", err: failure.BadRequestFromString("unknown amenity Am-7"), code: http.StatusBadRequest, message: "unknown amenity Am-7"},
		{name: "unauthorized", err: failure.Unauthorized("invalid email or password"), code: http.StatusUnauthorized, message: "invalid email or password"},
		{name: "internal", err: failure.InternalError(errors.New("connection reset")), code: http.StatusInternalServerError, message: "connection reset"},
		{name: "not found", err: failure.NotFound("room not found"), code: http.StatusNotFound, message: "room not found"},
		{name: "conflict", err: failure.Conflict("room is already booked"), code: http.StatusConflict, message: "room is already booked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.EqualError(t, tt.err, tt.message)
		})
	}
}

func TestNilPassesThrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, failure.GetCode(fmt.Errorf("lookup: %w", failure.NotFound("booking not found"))))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(nil))
}

func TestFromPostgres(t *testing.T) {
	unique := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)}
	foreignKey := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeFkViolation)}
	other := &pq.Error{Code: "23514"}

	assert.True(t, failure.IsConflict(failure.FromPostgres(unique, "room")))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(failure.FromPostgres(fmt.Errorf("insert: %w", foreignKey), "room")))
	assert.Equal(t, other, failure.FromPostgres(other, "room"))
	assert.False(t, failure.IsConflict(failure.FromPostgres(errors.New("timeout"), "room")))
}
