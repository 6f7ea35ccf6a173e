package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"glasscrm/internal/crm"
)

type LeadHandler struct {
	Svc *crm.Service
}

type createLeadReq struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
	Notes  string `json:"notes"`
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLeadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	l := crm.Lead{Name: req.Name, Phone: req.Phone, Source: req.Source, Notes: req.Notes}
	if err := h.Svc.CreateLead(r.Context(), &l); err != nil {
		http.Error(w, "invalid lead", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": l.ID})
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-7 * 24 * time.Hour)
	if s := strings.TrimSpace(r.URL.Query().Get("since")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid since (RFC3339)", http.StatusBadRequest)
			return
		}
		since = t
	}
	leads, err := h.Svc.LeadsSince(r.Context(), since)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"leads": leads})
}

type recordCallReq struct {
	Phone      string `json:"phone"`
	CallerName string `json:"caller_name"`
	Missed     bool   `json:"missed"`
}

func (h *LeadHandler) RecordCall(w http.ResponseWriter, r *http.Request) {
	var req recordCallReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	c := crm.CallRecord{Phone: req.Phone, CallerName: req.CallerName, Missed: req.Missed}
	if err := h.Svc.RecordCall(r.Context(), &c); err != nil {
		http.Error(w, "invalid call", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": c.ID})
}
