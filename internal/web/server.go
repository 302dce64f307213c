package web

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/leadforge/leadforge/internal/activity"
	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/lead"
	"github.com/leadforge/leadforge/internal/notify"
	"github.com/leadforge/leadforge/internal/suppress"
	"github.com/leadforge/leadforge/internal/track"
)

const (
	defaultRateLimit  = 30
	defaultRateWindow = time.Minute
	defaultSessionTTL = 30 * time.Minute
)

type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) filterRecent(times []time.Time, windowStart time.Time) []time.Time {
	n := 0
	for _, t := range times {
		if t.After(windowStart) {
			times[n] = t
			n++
		}
	}
	return times[:n]
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	recent := rl.filterRecent(rl.requests[key], now.Add(-rl.window))

	if len(recent) >= rl.limit {
		rl.requests[key] = recent
		return false
	}
	rl.requests[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		windowStart := time.Now().Add(-rl.window)
		for key, times := range rl.requests {
			recent := rl.filterRecent(times, windowStart)
			if len(recent) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = recent
			}
		}
		rl.mu.Unlock()
	}
}

// Server is the local JSON control API the dashboard frontend talks to.
// It owns the shared tracker; each browser session gets its own selection.
type Server struct {
	config        *config.Config
	configPath    string
	client        *api.Client
	tracker       *track.Tracker
	center        *notify.Center
	activityStore *activity.Store
	suppressions  *suppress.List
	suppressPath  string
	httpServer    *http.Server
	port          int
	csrfKey       []byte
	sessions      *SessionStore
	rateLimiter   *RateLimiter

	mu sync.Mutex // guards suppressions
}

func NewServer(port int, cfg *config.Config, configPath string, client *api.Client, tracker *track.Tracker, center *notify.Center, activityStore *activity.Store) (*Server, error) {
	csrfKey := make([]byte, 32)
	if _, err := rand.Read(csrfKey); err != nil {
		return nil, fmt.Errorf("failed to generate CSRF key: %w", err)
	}

	suppressPath := suppress.DefaultPath()
	suppressions, err := suppress.LoadFromFile(suppressPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load suppression list: %w", err)
	}

	s := &Server{
		config:        cfg,
		configPath:    configPath,
		client:        client,
		tracker:       tracker,
		center:        center,
		activityStore: activityStore,
		suppressions:  suppressions,
		suppressPath:  suppressPath,
		port:          port,
		csrfKey:       csrfKey,
		sessions:      NewSessionStore(defaultSessionTTL),
		rateLimiter:   NewRateLimiter(defaultRateLimit, defaultRateWindow),
	}

	return s, nil
}

// Start starts the control server and the tracker's polling loop
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.tracker.Run(ctx)

	// Open browser after a short delay
	go func() {
		time.Sleep(500 * time.Millisecond)
		openBrowser(fmt.Sprintf("http://localhost:%d", s.port))
	}()

	fmt.Printf("Starting LeadForge control API at http://localhost:%d\n", s.port)
	fmt.Println("Press Ctrl+C to stop")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server and stops the tracker
func (s *Server) Shutdown(ctx context.Context) error {
	s.tracker.Stop()
	return s.httpServer.Shutdown(ctx)
}

// setupRouter configures all routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(securityHeaders)

	// CSRF protection - secure for localhost only
	csrfMiddleware := csrf.Protect(
		s.csrfKey,
		csrf.Secure(false), // Allow HTTP for localhost
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.TrustedOrigins([]string{"localhost", "127.0.0.1", fmt.Sprintf("localhost:%d", s.port), fmt.Sprintf("127.0.0.1:%d", s.port)}),
	)
	r.Use(csrfMiddleware)

	r.Get("/api/token", s.handleToken)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/campaign", s.handleSetCampaign)
		r.Get("/campaigns", s.handleCampaigns)
		r.Get("/leads", s.handleLeads)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/auto-refresh", s.handleAutoRefresh)

		r.Post("/leads/{leadID}/generate/{kind}", s.handleGenerate)
		r.Post("/leads/{leadID}/cancel/{kind}", s.handleCancel)
		r.Post("/leads/{leadID}/dismiss", s.handleDismiss)
		r.Delete("/leads/{leadID}", s.handleDeleteLead)

		r.Post("/scrape", s.handleScrape)
		r.Post("/scrape/cancel", s.handleScrapeCancel)

		r.Get("/selection", s.handleSelectionGet)
		r.Post("/selection/toggle", s.handleSelectionToggle)
		r.Post("/selection/set", s.handleSelectionSet)
		r.Post("/selection/clear", s.handleSelectionClear)

		r.Post("/bulk", s.handleBulk)
		r.Post("/bulk/cancel", s.handleBulkCancel)

		r.Get("/notifications", s.handleNotifications)
		r.Get("/export", s.handleExport)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/operations", s.handleOperations)
		r.Get("/replies", s.handleReplies)
		r.Get("/replies/stats", s.handleReplyStats)

		r.Get("/suppressions", s.handleSuppressionsGet)
		r.Post("/suppressions", s.handleSuppressionsAdd)
	})

	return r
}

// securityHeaders adds security headers to all responses
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'; base-uri 'self'")

		// Credentials and lead data should never be cached
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		next.ServeHTTP(w, r)
	})
}

// openBrowser opens the default browser to the specified URL
func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		return
	}

	exec.Command(cmd, args...).Start()
}

// JSON helpers

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAPIError maps backend failures onto control-API responses
func writeAPIError(w http.ResponseWriter, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "backend rejected the API token")
		return
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, apiErr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

// Session helpers - each browser gets its own selection and coordinator

func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	cookie, err := r.Cookie("leadforge_session")
	if err == nil && cookie.Value != "" {
		if sess := s.sessions.Get(cookie.Value); sess != nil {
			return sess
		}
	}

	id, err := s.sessions.Create()
	if err != nil {
		return nil
	}
	s.sessions.Update(id, func(sess *Session) {
		sess.Selection = track.NewSelection()
		sess.Coordinator = track.NewCoordinator(s.tracker, sess.Selection, s.center)
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "leadforge_session",
		Value:    id,
		Path:     "/",
		MaxAge:   1800, // 30 minutes
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return s.sessions.Get(id)
}

// Handlers

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.session(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	reg := s.tracker.Registry()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign_id":   s.tracker.CampaignID(),
		"pending_tasks": reg.Tasks(),
		"pending_count": reg.Len(),
		"sessions":      s.sessions.Count(),
	})
}

func (s *Server) handleSetCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampaignID string `json:"campaign_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.tracker.SetCampaign(body.CampaignID)
	writeJSON(w, http.StatusOK, map[string]string{"campaign_id": body.CampaignID})
}

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.client.Campaigns(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	leads := s.tracker.Leads()
	projections := track.ProjectAll(leads, s.tracker.Registry(), s.tracker.Tokens())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leads":       leads,
		"projections": projections,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	leads, err := s.tracker.Refresh(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leads":       leads,
		"projections": track.ProjectAll(leads, s.tracker.Registry(), s.tracker.Tokens()),
	})
}

func (s *Server) handleAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.tracker.SetAutoRefresh(body.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimiter.Allow("generate") {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, wait a moment before starting more jobs")
		return
	}

	leadID := chi.URLParam(r, "leadID")
	kind := lead.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown generation kind %q", kind))
		return
	}

	var params api.GenerateParams
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&params)
	}
	if params.CompanyInfo == "" && s.config != nil {
		params.CompanyInfo = s.config.Company.Description
		params.CustomInstruction = s.config.Company.CustomInstruction
	}

	label := leadID
	if l := lead.FindByID(s.tracker.Leads(), leadID); l != nil {
		label = l.Name
	}

	if err := s.tracker.StartGeneration(r.Context(), leadID, label, kind, params); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	kind := lead.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown generation kind %q", kind))
		return
	}

	s.tracker.Cancel(r.Context(), leadID, kind)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.tracker.Dismiss(chi.URLParam(r, "leadID"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	if err := s.client.DeleteLead(r.Context(), leadID); err != nil {
		writeAPIError(w, err)
		return
	}
	s.tracker.Dismiss(leadID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimiter.Allow("scrape") {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var body struct {
		Source     lead.Source `json:"source"`
		Query      string      `json:"query"`
		Location   string      `json:"location"`
		MaxResults int         `json:"max_results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	campaignID := s.tracker.CampaignID()
	if campaignID == "" {
		writeError(w, http.StatusBadRequest, "no campaign selected")
		return
	}

	err := s.client.GenerateLeads(r.Context(), campaignID, body.Source, api.ScrapeParams{
		Query:      body.Query,
		Location:   body.Location,
		MaxResults: body.MaxResults,
	})
	if err != nil {
		writeAPIError(w, err)
		return
	}

	s.recordOperation(campaignID, "", "", activity.ActionScrape, "", activity.StatusStarted, body.Query)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scraping"})
}

func (s *Server) handleScrapeCancel(w http.ResponseWriter, r *http.Request) {
	campaignID := s.tracker.CampaignID()
	if campaignID == "" {
		writeError(w, http.StatusBadRequest, "no campaign selected")
		return
	}
	if err := s.tracker.CancelScrape(r.Context(), campaignID); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleSelectionGet(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ids": sess.Selection.IDs(), "count": sess.Selection.Len()})
}

func (s *Server) handleSelectionToggle(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	selected := sess.Selection.Toggle(body.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"selected": selected, "count": sess.Selection.Len()})
}

func (s *Server) handleSelectionSet(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}

	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess.Selection.Set(body.IDs)
	writeJSON(w, http.StatusOK, map[string]int{"count": sess.Selection.Len()})
}

func (s *Server) handleSelectionClear(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	sess.Selection.Clear()
	writeJSON(w, http.StatusOK, map[string]int{"count": 0})
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimiter.Allow("bulk") {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, wait before starting another batch")
		return
	}

	sess := s.session(w, r)
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}

	var body struct {
		Action            track.BulkAction `json:"action"`
		CompanyInfo       string           `json:"company_info"`
		CustomInstruction string           `json:"custom_instruction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := track.BulkParams{
		CompanyInfo:       body.CompanyInfo,
		CustomInstruction: body.CustomInstruction,
	}
	if params.CompanyInfo == "" && s.config != nil {
		params.CompanyInfo = s.config.Company.Description
	}
	if s.config != nil && (body.Action == track.BulkSendEmails || body.Action == track.BulkSendWhatsApp) {
		params.Sender = &api.SenderCredentials{
			Email:    s.config.Sender.Email,
			Password: s.config.Sender.Password,
			Host:     s.config.Sender.Host,
			Port:     s.config.Sender.Port,
		}
		params.MinDelaySeconds = s.config.Sender.MinDelaySeconds
		params.MaxDelaySeconds = s.config.Sender.MaxDelaySeconds

		// Drop suppressed addresses before a send batch
		s.filterSuppressed(sess.Selection)
	}

	report, err := sess.Coordinator.Run(r.Context(), body.Action, params)
	if err != nil {
		switch {
		case errors.Is(err, track.ErrEmptySelection):
			writeError(w, http.StatusBadRequest, "Please select leads first")
		case errors.Is(err, track.ErrMissingCompanyInfo):
			writeError(w, http.StatusBadRequest, "Company information is required")
		case api.IsCancelled(err):
			writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
		default:
			writeAPIError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// filterSuppressed removes do-not-contact leads from a selection
func (s *Server) filterSuppressed(sel *track.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads := s.tracker.Leads()
	var kept []string
	for _, id := range sel.IDs() {
		l := lead.FindByID(leads, id)
		if l != nil && s.suppressions.IsBlocked(l.Email) {
			continue
		}
		kept = append(kept, id)
	}
	sel.Set(kept)
}

func (s *Server) handleBulkCancel(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	cancelled := sess.Coordinator.CancelActive()
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	after, _ := strconv.ParseUint(r.URL.Query().Get("after"), 10, 64)
	if after > 0 {
		writeJSON(w, http.StatusOK, s.center.Since(after))
		return
	}
	writeJSON(w, http.StatusOK, s.center.Recent(50))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	campaignID := s.tracker.CampaignID()
	if campaignID == "" {
		writeError(w, http.StatusBadRequest, "no campaign selected")
		return
	}

	leads, err := s.tracker.Refresh(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}

	name := lead.ExportFileName(campaignID, time.Now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := lead.ExportCSV(w, leads); err != nil {
		// Headers are already out; nothing useful left to do
		return
	}
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	campaignID := s.tracker.CampaignID()
	if campaignID == "" {
		writeError(w, http.StatusBadRequest, "no campaign selected")
		return
	}

	analytics, err := s.client.CampaignEmailAnalytics(r.Context(), campaignID)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	if s.activityStore == nil {
		writeJSON(w, http.StatusOK, []activity.Record{})
		return
	}
	records, err := s.activityStore.RecentOperations(100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	if s.activityStore == nil {
		writeJSON(w, http.StatusOK, []activity.Reply{})
		return
	}
	replies, err := s.activityStore.RecentReplies(100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, replies)
}

func (s *Server) handleReplyStats(w http.ResponseWriter, r *http.Request) {
	if s.activityStore == nil {
		writeJSON(w, http.StatusOK, map[string]int{})
		return
	}
	stats, err := s.activityStore.ReplyStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSuppressionsGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.suppressions.Entries)
}

func (s *Server) handleSuppressionsAdd(w http.ResponseWriter, r *http.Request) {
	var entry suppress.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if entry.Reason == "" {
		entry.Reason = suppress.ReasonManual
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.suppressions.Add(entry); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.suppressions.SaveWithBackup(s.suppressPath); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) recordOperation(campaignID, leadID, leadName string, action activity.Action, kind string, status activity.Status, detail string) {
	if s.activityStore == nil {
		return
	}
	rec := &activity.Record{
		CampaignID: campaignID,
		LeadID:     leadID,
		LeadName:   leadName,
		Action:     action,
		Kind:       kind,
		Status:     status,
		Detail:     detail,
	}
	if err := s.activityStore.AddOperation(rec); err != nil {
		s.center.Notify(notify.LevelWarning, "failed to record operation: %v", err)
	}
}
