package errors

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// WriteJSON encodes v with the given status. v is encoded before anything
// is written, so a value that cannot be encoded yields a 500 JSON error
// instead of a truncated success.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": EncodeFailedMessage})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// EncodeFailedMessage is sent when a response body cannot be encoded.
const EncodeFailedMessage = "Impossible de produire la réponse."

// WriteJSONError writes {"error": msg}.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WantsJSON reports whether the client asked for a JSON response, either
// through Accept or by sending a JSON body.
func WantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
