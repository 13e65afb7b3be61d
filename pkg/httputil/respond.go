package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	flockerrors "github.com/flockview/flockview/pkg/errors"
)

// DefaultMaxBody caps request bodies decoded by [DecodeJSON]. Snapshots
// ride along in view requests, so the cap is generous.
const DefaultMaxBody = 32 << 20 // 32 MB

// errorEnvelope is the wire shape of every error response.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as a JSON error response. The error code comes from
// the errors package when err carries one, ErrCodeInternal otherwise.
func Error(w http.ResponseWriter, status int, err error) {
	code := flockerrors.GetCode(err)
	if code == "" {
		code = flockerrors.ErrCodeInternal
	}
	JSON(w, status, errorEnvelope{
		Error: errorBody{
			Code:    string(code),
			Message: flockerrors.UserMessage(err),
		},
	})
}

// DecodeJSON decodes a size-limited JSON request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, DefaultMaxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return flockerrors.Wrap(flockerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// StatusForError maps an error to an HTTP status code using its error code.
func StatusForError(err error) int {
	switch flockerrors.GetCode(err) {
	case flockerrors.ErrCodeInvalidInput,
		flockerrors.ErrCodeInvalidSnapshot,
		flockerrors.ErrCodeInvalidParams,
		flockerrors.ErrCodeInvalidSeeds,
		flockerrors.ErrCodeInvalidEngine,
		flockerrors.ErrCodeInvalidSession:
		return http.StatusBadRequest
	case flockerrors.ErrCodeNotFound,
		flockerrors.ErrCodeFileNotFound,
		flockerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case flockerrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest is shorthand for a 400 response with a formatted message.
func BadRequest(w http.ResponseWriter, format string, args ...any) {
	Error(w, http.StatusBadRequest, flockerrors.New(flockerrors.ErrCodeInvalidInput, "%s", fmt.Sprintf(format, args...)))
}
