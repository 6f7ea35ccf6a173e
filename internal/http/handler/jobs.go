package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"glasscrm/internal/crm"
	"glasscrm/internal/outreach"

	"github.com/go-chi/chi/v5"
)

type JobHandler struct {
	Svc  *crm.Service
	Repo *outreach.Repo
}

type createJobReq struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	VehicleYear   int    `json:"vehicle_year"`
	VehicleMake   string `json:"vehicle_make"`
	VehicleModel  string `json:"vehicle_model"`
	GlassType     string `json:"glass_type"`
	QuoteCents    int64  `json:"quote_cents"`
	City          string `json:"city"`
	FollowUpMode  string `json:"follow_up_mode"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		http.Error(w, "customer_name required", http.StatusBadRequest)
		return
	}

	job, err := h.Svc.CreateJob(r.Context(), crm.CreateJobInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		VehicleYear:   req.VehicleYear,
		VehicleMake:   req.VehicleMake,
		VehicleModel:  req.VehicleModel,
		GlassType:     req.GlassType,
		QuoteCents:    req.QuoteCents,
		City:          req.City,
		FollowUpMode:  req.FollowUpMode,
	})
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":         job.ID,
		"job_number": job.JobNumber,
	})
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.ListJobs(r.Context(), strings.TrimSpace(r.URL.Query().Get("stage")))
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"jobs": jobs})
}

type stageReq struct {
	Stage string `json:"stage"`
}

func (h *JobHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req stageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Stage = strings.TrimSpace(strings.ToLower(req.Stage))

	job, archived, err := h.Svc.AdvanceStage(r.Context(), id, req.Stage)
	if err != nil {
		switch err {
		case crm.ErrNotFound:
			http.Error(w, "not found", http.StatusNotFound)
		case crm.ErrInvalidStage:
			http.Error(w, "invalid stage transition", http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":             job.ID,
		"stage":          job.Stage,
		"tasks_archived": archived,
	})
}

func (h *JobHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	tasks, err := h.Repo.ByJob(id)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tasks": tasks})
}
