package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikelady/voicegit/internal/handlers"
	"github.com/mikelady/voicegit/internal/models"
	"github.com/mikelady/voicegit/internal/services"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// pageTemplates holds the parsed layout + page pair per page
var pageTemplates map[string]*template.Template

func init() {
	pageTemplates = make(map[string]*template.Template)
	for _, page := range []string{"dashboard.html"} {
		pageTemplates[page] = template.Must(template.New("").ParseFS(templatesFS,
			"templates/layouts/base.html",
			"templates/pages/"+page,
		))
	}
}

// PageData holds data passed to templates
type PageData struct {
	Title string
	Flash *models.Notification
	Data  any
}

// DashboardData is the Data of the dashboard page
type DashboardData struct {
	Query   string
	Commits []models.CommitRecord
	Loading bool
}

// CommitController is the commit API service plus its loading indicator.
// *services.VoiceCommitService satisfies it.
type CommitController interface {
	handlers.CommitService
	Loading() bool
}

// Router serves the dashboard and the JSON API
type Router struct {
	mux     chi.Router
	service CommitController
	logger  *slog.Logger
}

// NewRouter wires every route
func NewRouter(service CommitController, gateway services.CommitMessageGenerator, logger *slog.Logger) *Router {
	r := &Router{
		mux:     chi.NewRouter(),
		service: service,
		logger:  logger,
	}
	r.setupRoutes(gateway)
	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setupRoutes(gateway services.CommitMessageGenerator) {
	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.RealIP)
	r.mux.Use(RequestLogger(r.logger))
	r.mux.Use(middleware.Recoverer)

	staticContent, _ := fs.Sub(staticFS, "static")
	r.mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	r.mux.Get("/healthz", r.handleHealth)

	// Dashboard
	r.mux.Get("/", r.handleDashboard)
	r.mux.Post("/commits", r.handleSubmit)
	r.mux.Post("/commits/record", r.handleRecord)
	r.mux.Post("/commits/{id}/regenerate", r.handleRegenerate)
	r.mux.Post("/commits/{id}/delete", r.handleDelete)

	// JSON API
	r.mux.Route("/api", func(api chi.Router) {
		api.Post("/ai", handlers.NewAIHandler(gateway, r.logger).Generate)
		api.Route("/commits", handlers.NewCommitsHandler(r.service, r.logger).Mount)
	})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) {
	params := req.URL.Query()
	query := params.Get("q")

	var flash *models.Notification
	switch {
	case query != "":
		toast := models.Info(services.MsgSearchPrefix + query)
		flash = &toast
	case params.Get("cleared") == "1":
		toast := models.Info(services.MsgSearchCleared)
		flash = &toast
	}
	r.renderDashboard(w, req, http.StatusOK, query, flash)
}

func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) {
	result, err := r.service.Submit(req.Context(), req.FormValue("transcript"))
	if errors.Is(err, services.ErrEmptyTranscript) {
		// Blank submissions are ignored
		r.renderDashboard(w, req, http.StatusOK, "", nil)
		return
	}
	r.renderAction(w, req, result, err)
}

func (r *Router) handleRecord(w http.ResponseWriter, req *http.Request) {
	result, err := r.service.Record(req.Context())
	r.renderAction(w, req, result, err)
}

func (r *Router) handleRegenerate(w http.ResponseWriter, req *http.Request) {
	result, err := r.service.Regenerate(req.Context(), chi.URLParam(req, "id"))
	r.renderAction(w, req, result, err)
}

func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) {
	result, err := r.service.Delete(req.Context(), chi.URLParam(req, "id"))
	r.renderAction(w, req, result, err)
}

// renderAction shows the dashboard with the action's toast
func (r *Router) renderAction(w http.ResponseWriter, req *http.Request, result services.ActionResult, err error) {
	status := http.StatusOK
	switch {
	case errors.Is(err, services.ErrGenerationInFlight):
		status = http.StatusConflict
	case err != nil:
		status = http.StatusInternalServerError
	}
	toast := result.Toast
	r.renderDashboard(w, req, status, "", &toast)
}

func (r *Router) renderDashboard(w http.ResponseWriter, req *http.Request, status int, query string, flash *models.Notification) {
	commits, err := r.service.Search(req.Context(), query)
	if err != nil {
		r.logger.ErrorContext(req.Context(), "failed to list commits", slog.String("error", err.Error()))
		http.Error(w, "failed to load commits", http.StatusInternalServerError)
		return
	}

	r.renderPage(w, status, "dashboard.html", PageData{
		Title: "Voice Commits",
		Flash: flash,
		Data: &DashboardData{
			Query:   query,
			Commits: commits,
			Loading: r.service.Loading(),
		},
	})
}

func (r *Router) renderPage(w http.ResponseWriter, status int, page string, data PageData) {
	t, ok := pageTemplates[page]
	if !ok {
		http.Error(w, "Template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base.html", data); err != nil {
		r.logger.Error("template error", slog.String("page", page), slog.String("error", err.Error()))
	}
}
