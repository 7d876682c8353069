package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body with the given status. Encoding
// failures after the status line has gone out cannot be reported to
// the client, so they are dropped.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// NoContent writes an empty 204 response. Used by operations whose
// effect is only observable through later reads: logout, password
// change, deletes, and consumed slash commands.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
