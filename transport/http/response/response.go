// Package response writes the JSON envelopes every endpoint answers with: {"data": ...},
// {"message": ...} or {"error": ...}.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"inap/shared/constant"
	"inap/shared/failure"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	write(w, code, Message{Message: &message})
}

func WithJSON(w http.ResponseWriter, code int, payload any) {
	write(w, code, Data[any]{Data: &payload})
}

// WithError answers with the status carried by err. Errors that are not a failure are
// logged and reported as a bare internal error so driver messages never reach clients.
func WithError(w http.ResponseWriter, err error) {
	withError(w, err, "request failed")
}

type errorTracer interface {
	TraceError(err error)
}

// WithTracedError marks the request span as failed before answering like WithError.
// Client errors are logged at warn level under msg.
func WithTracedError(w http.ResponseWriter, span errorTracer, err error, msg string) {
	span.TraceError(err)

	if failure.GetCode(err) < http.StatusInternalServerError {
		log.Warn().Err(err).Msg(msg)
	}

	withError(w, err, msg)
}

func withError(w http.ResponseWriter, err error, msg string) {
	code := failure.GetCode(err)
	message := err.Error()

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg(msg)

		var fail *failure.Failure
		if !errors.As(err, &fail) {
			message = constant.ResponseErrorInternal
		}
	}

	write(w, code, Error{Error: &message})
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")

		code = http.StatusInternalServerError
		body = []byte(`{"error":"` + constant.ResponseErrorInternal + `"}`)
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(code)

	if _, err = w.Write(body); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
