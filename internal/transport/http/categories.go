package http

import (
	"encoding/json"
	"net/http"

	"kviz/internal/domain"
)

// ServeCategories lists the category catalog.
func ServeCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(domain.Categories())
}
