package httpserver

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError emits the {ok:false, error, message} envelope. message is
// omitted when empty.
func writeError(w http.ResponseWriter, status int, code, message string) {
	body := map[string]interface{}{"ok": false, "error": code}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, status, body)
}

func readBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
