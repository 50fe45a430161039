package webui

import (
	"encoding/json"
	"net/http"
	"strings"

	"plancal/internal/calendar"
	appLog "plancal/internal/log"
	"plancal/internal/plan"
	"plancal/internal/planner"
)

type PlanRequest struct {
	Request string `json:"request"`
}

type PlanResponse struct {
	Plan      string         `json:"plan"`
	Events    []plan.Event   `json:"events"`
	Anomalies []plan.Anomaly `json:"anomalies,omitempty"`
	Error     string         `json:"error,omitempty"`
	Step      planner.Step   `json:"step,omitempty"`
}

func (s *Server) handleAPIPlan(w http.ResponseWriter, r *http.Request) {
	if s.startupErr != nil {
		writeJSON(w, http.StatusServiceUnavailable, PlanResponse{Events: []plan.Event{}, Error: planner.Message(s.startupErr)})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.planner.Run(r.Context(), req.Request)
	resp := PlanResponse{Plan: res.Plan, Events: res.Events, Anomalies: res.Anomalies}
	status := http.StatusOK
	if err != nil {
		resp.Error = planner.Message(err)
		resp.Step = planner.FailedStep(err)
		status = statusForStep(resp.Step)
	}
	writeJSON(w, status, resp)
}

func statusForStep(step planner.Step) int {
	switch step {
	case planner.StepValidate:
		return http.StatusBadRequest
	case planner.StepRequest:
		return http.StatusBadGateway
	case planner.StepParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleICS re-parses a plan posted back by the page and returns it as an
// iCalendar attachment. No server-side state is involved.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	if s.startupErr != nil {
		s.renderUnavailable(w)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	raw := r.FormValue("plan")
	if strings.TrimSpace(raw) == "" {
		http.Error(w, "plan is required", http.StatusBadRequest)
		return
	}

	events, err := plan.Parse(raw)
	if err != nil {
		http.Error(w, planner.Message(err), http.StatusUnprocessableEntity)
		return
	}
	body, err := calendar.ICS(events, calendar.ICSOptions{Name: planner.MsgTitle})
	if err != nil {
		http.Error(w, planner.Message(err), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="plan.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("write json failed", err)
	}
}
