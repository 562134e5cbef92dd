package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/auth"
	"github.com/cognicase/cognicase/pkg/blob"
	"github.com/cognicase/cognicase/pkg/storage"
)

// Router holds the handler dependencies and builds the route table.
type Router struct {
	store   storage.Store
	blobs   blob.Store
	auth    *auth.Service
	authMW  Middleware
	logger  *slog.Logger
	nowTime func() time.Time
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) RouterOption {
	return func(rt *Router) { rt.logger = l }
}

// WithNowTime sets the clock function (primarily for testing).
func WithNowTime(now func() time.Time) RouterOption {
	return func(rt *Router) { rt.nowTime = now }
}

// NewRouter creates the route table. authMW is applied to every route
// except the OTP endpoints, the upload file server, and /healthz.
func NewRouter(store storage.Store, blobs blob.Store, authSvc *auth.Service, authMW Middleware, opts ...RouterOption) *Router {
	rt := &Router{
		store:   store,
		blobs:   blobs,
		auth:    authSvc,
		authMW:  authMW,
		logger:  slog.Default(),
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Routes returns the assembled route table.
func (rt *Router) Routes() http.Handler {
	mux := http.NewServeMux()

	// Auth. Only onboarding requires an established session.
	mux.HandleFunc("POST /api/auth/request-otp", rt.handleRequestOTP)
	mux.HandleFunc("POST /api/auth/verify-otp", rt.handleVerifyOTP)
	mux.Handle("POST /api/auth/complete-onboarding", rt.protected(rt.handleCompleteOnboarding))

	// Cases.
	mux.Handle("GET /api/cases", rt.protected(rt.handleListCases))
	mux.Handle("GET /api/cases/{id}", rt.protected(rt.handleGetCase))
	mux.Handle("POST /api/cases", rt.protected(rt.handleCreateCase))
	mux.Handle("PUT /api/cases/{id}", rt.protected(rt.handleUpdateCase))
	mux.Handle("DELETE /api/cases/{id}", rt.protected(rt.handleDeleteCase))

	// Clients.
	mux.Handle("GET /api/clients", rt.protected(rt.handleListClients))
	mux.Handle("GET /api/clients/{id}", rt.protected(rt.handleGetClient))
	mux.Handle("POST /api/clients", rt.protected(rt.handleCreateClient))
	mux.Handle("PUT /api/clients/{id}", rt.protected(rt.handleUpdateClient))
	mux.Handle("DELETE /api/clients/{id}", rt.protected(rt.handleDeleteClient))

	// Tasks.
	mux.Handle("GET /api/tasks", rt.protected(rt.handleListTasks))
	mux.Handle("POST /api/tasks", rt.protected(rt.handleCreateTask))
	mux.Handle("PUT /api/tasks/{id}", rt.protected(rt.handleUpdateTask))
	mux.Handle("DELETE /api/tasks/{id}", rt.protected(rt.handleDeleteTask))

	// Documents.
	mux.Handle("GET /api/documents", rt.protected(rt.handleListDocuments))
	mux.Handle("POST /api/documents", rt.protected(rt.handleCreateDocument))
	mux.Handle("DELETE /api/documents/{id}", rt.protected(rt.handleDeleteDocument))

	// Notes.
	mux.Handle("GET /api/notes", rt.protected(rt.handleListNotes))
	mux.Handle("POST /api/notes", rt.protected(rt.handleCreateNote))
	mux.Handle("DELETE /api/notes/{id}", rt.protected(rt.handleDeleteNote))

	// Invoices.
	mux.Handle("GET /api/invoices", rt.protected(rt.handleListInvoices))
	mux.Handle("POST /api/invoices", rt.protected(rt.handleCreateInvoice))
	mux.Handle("PUT /api/invoices/{id}", rt.protected(rt.handleUpdateInvoiceStatus))
	mux.Handle("DELETE /api/invoices/{id}", rt.protected(rt.handleDeleteInvoice))

	// Activities.
	mux.Handle("GET /api/activities", rt.protected(rt.handleListActivities))
	mux.Handle("GET /api/activities/global", rt.protected(rt.handleGlobalActivities))

	// Uploaded files.
	mux.HandleFunc("GET /uploads/{key}", rt.handleDownload)

	mux.HandleFunc("GET /healthz", rt.handleHealthz)

	return mux
}

// protected wraps a handler with the bearer-auth middleware.
func (rt *Router) protected(h http.HandlerFunc) http.Handler {
	return rt.authMW(h)
}

func (rt *Router) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.HealthCheck(r.Context()); err != nil {
		rt.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recordActivity appends a case history entry. Logging is best-effort:
// a failure never fails the operation that triggered it.
func (rt *Router) recordActivity(ctx context.Context, caseID string, typ api.ActivityType, message string) {
	now := rt.nowTime()
	a := &api.Activity{
		ID:        api.NewID(),
		CaseID:    caseID,
		Type:      typ,
		Message:   message,
		CreatedBy: storage.GetOwner(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if u := auth.IdentityFromContext(ctx); u != nil {
		a.User = u.Name
	}
	if err := rt.store.CreateActivity(ctx, a); err != nil {
		rt.logger.Warn("recording activity",
			"case_id", caseID,
			"type", string(typ),
			"error", err,
		)
	}
}
