package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"glasscrm/internal/outreach"
)

type ReportHandler struct {
	Repo *outreach.Repo
}

// Followups exposes the append-only audit trail to reporting tools.
func (h *ReportHandler) Followups(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	if s := strings.TrimSpace(r.URL.Query().Get("since")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid since (RFC3339)", http.StatusBadRequest)
			return
		}
		since = t
	}

	var actions []string
	if a := strings.TrimSpace(r.URL.Query().Get("action")); a != "" {
		actions = append(actions, a)
	}

	entries, err := h.Repo.LogSince(since, actions...)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"entries": entries})
}
