package utils

import (
	"io"
	"mime"
	"net/http"

	"github.com/goccy/go-json"

	"recreo/errs"
	"recreo/logging"
)

// Message is the body of every error response.
type Message struct {
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, Message{Message: msg})
}

// RespondWithErr maps a classified error onto its status. Unclassified and
// store failures are logged before they are reported.
func RespondWithErr(w http.ResponseWriter, err error) {
	code := errs.Status(err)
	if code >= http.StatusInternalServerError {
		logging.Err(err).Str("kind", errs.KindOf(err).String()).Msg("request failed")
	}
	RespondWithError(w, code, errs.Message(err))
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Err(err).Msg("encode response")
	}
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeBody reads a JSON or form-encoded request body into v. Form values
// are mapped onto v's json field names; repeated keys become arrays. An empty
// body leaves v as is.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if isForm(r) {
		return decodeForm(r, v)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return errs.Validation("Unable to read request body.")
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errs.Validation("Invalid JSON body.")
	}
	return nil
}

const maxBody = 1 << 20

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

func decodeForm(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return errs.Validation("Unable to read request body.")
	}
	if len(r.PostForm) == 0 {
		return nil
	}
	fields := make(map[string]any, len(r.PostForm))
	for k, vals := range r.PostForm {
		if len(vals) == 1 {
			fields[k] = vals[0]
		} else {
			fields[k] = vals
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return errs.Validation("Invalid form body.")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errs.Validation("Invalid form body.")
	}
	return nil
}
