package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fc24pred/internal/usecase"
)

const (
	googleAPIVersion  = "2.0"
	internalMessage   = "internal server error"
	storageRetryAfter = "5"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// mappedError is the wire form of a usecase failure. Domain names the part
// of the service that refused the request.
type mappedError struct {
	HTTPStatus int
	Status     string
	Domain     string
	Reason     string
}

var errorRules = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "INVALID_ARGUMENT", "fc24pred.request", "invalidInput"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "NOT_FOUND", "fc24pred.teams", "unknownTeam"}},
	{usecase.ErrInsufficientData, mappedError{http.StatusUnprocessableEntity, "FAILED_PRECONDITION", "fc24pred.predictions", "insufficientHistory"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "UNAVAILABLE", "fc24pred.storage", "storageUnavailable"}},
}

var internalError = mappedError{http.StatusInternalServerError, "INTERNAL", "fc24pred", "internalError"}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError renders err in the google error envelope. Unmapped errors are
// reported as a bare internal error so storage details stay server side.
func writeError(_ context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := internalMessage
	if mapped != internalError {
		message = err.Error()
	}
	if mapped.HTTPStatus == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", storageRetryAfter)
	}
	writeMappedError(w, mapped, message)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeMappedError(w, internalError, internalMessage)
}

func writeMappedError(w http.ResponseWriter, mapped mappedError, message string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  mapped.Domain,
				Reason:  mapped.Reason,
				Message: message,
			}},
		},
	})
}
