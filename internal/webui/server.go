package webui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"plancal/internal/calendar"
	appLog "plancal/internal/log"
	"plancal/internal/plan"
	"plancal/internal/planner"
)

//go:embed templates
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Server serves the planning form and its JSON/ICS endpoints.
type Server struct {
	planner *planner.Planner
	// startupErr puts the server in unavailable mode: only the error is shown.
	startupErr error
	listen     string
	mux        *http.ServeMux
}

// NewServer creates a server backed by p.
func NewServer(p *planner.Planner, listen string) *Server {
	s := &Server{planner: p, listen: listen, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

// NewUnavailableServer creates a server that answers every page with the
// message for err, for when startup could not build a planner.
func NewUnavailableServer(err error, listen string) *Server {
	s := &Server{startupErr: err, listen: listen, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/plan", s.handleAPIPlan)
	s.mux.HandleFunc("/calendar.ics", s.handleICS)
	s.mux.HandleFunc("/", s.handleIndex)
}

// Start listens on the configured address until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("webui listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the server on ln and shuts it down gracefully when ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		appLog.Info("shutting down web UI")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting web UI", "listen", "http://"+ln.Addr().String(), "available", s.startupErr == nil)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webui server error: %w", err)
	}
	return nil
}

type pageData struct {
	Title       string
	Label       string
	Placeholder string
	Submit      string

	Unavailable bool
	Request     string
	Done        bool
	Success     string
	PlanHTML    template.HTML
	RawPlan     string
	Calendar    template.HTML
	Error       string

	Anomalies     []plan.Anomaly
	AnomalyNotice string
}

func newPageData() pageData {
	return pageData{
		Title:         planner.MsgTitle,
		Label:         planner.MsgInputLabel,
		Placeholder:   plan.Placeholder,
		Submit:        planner.MsgSubmit,
		Success:       planner.MsgSuccess,
		AnomalyNotice: planner.MsgAnomaly,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.startupErr != nil {
		s.renderUnavailable(w)
		return
	}

	data := newPageData()
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		data.Request = r.FormValue("request")
		s.fillResult(r.Context(), &data)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	render(w, http.StatusOK, data)
}

func (s *Server) fillResult(ctx context.Context, data *pageData) {
	res, err := s.planner.Run(ctx, data.Request)
	if res.Plan != "" {
		planHTML, mdErr := markdown(res.Plan)
		if mdErr != nil {
			appLog.Error("markdown render failed", mdErr)
		}
		data.PlanHTML = planHTML
		data.RawPlan = res.Plan
	}
	if err != nil {
		data.Error = planner.Message(err)
		return
	}

	cal, err := calendar.HTML(res.Events)
	if err != nil {
		data.Error = planner.Message(err)
		return
	}
	data.Done = true
	data.Calendar = cal
	data.Anomalies = res.Anomalies
}

func (s *Server) renderUnavailable(w http.ResponseWriter) {
	data := newPageData()
	data.Unavailable = true
	data.Error = planner.Message(s.startupErr)
	render(w, http.StatusServiceUnavailable, data)
}

func render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, data); err != nil {
		appLog.Error("render page failed", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]any{
		"status": "online",
		"time":   time.Now().Format(time.RFC3339),
	}
	if s.startupErr != nil {
		status["status"] = "unavailable"
		status["error"] = planner.Message(s.startupErr)
	}
	writeJSON(w, http.StatusOK, status)
}
