package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cognicase/cognicase/pkg/storage"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes the resource-endpoint envelope {"message": "..."}.
// Used for both failures and bare confirmations ("Case deleted").
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeAuthError writes the auth-endpoint envelope {"error": "..."}.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps a storage failure on a resource endpoint:
// ErrNotFound becomes a 404 with the record-specific message, anything
// else a 500.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, notFoundMsg)
		return
	}
	writeMessage(w, http.StatusInternalServerError, err.Error())
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
