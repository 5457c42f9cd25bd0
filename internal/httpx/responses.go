package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v with the given status. Encoding failures after the
// header is out can only be logged by the access log's byte count.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes the flat {"error": message} body used by the public API.
func JSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, map[string]string{"error": message})
}
