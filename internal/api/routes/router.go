package routes

import (
	"net/http"
	"strings"

	"github.com/medoraclinic/medora-site/backend/internal/api/handlers"
	"github.com/medoraclinic/medora-site/backend/internal/api/middleware"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	procedureHandler *handlers.ProcedureHandler
	surgeonHandler   *handlers.SurgeonHandler
	caseHandler      *handlers.CaseHandler
	assetHandler     *handlers.AssetHandler

	auth            *middleware.Authenticator
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics

	fallbacks map[string]bool
}

// NewRouter creates a new router
func NewRouter(
	procedureHandler *handlers.ProcedureHandler,
	surgeonHandler *handlers.SurgeonHandler,
	caseHandler *handlers.CaseHandler,
	assetHandler *handlers.AssetHandler,
	auth *middleware.Authenticator,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		procedureHandler: procedureHandler,
		surgeonHandler:   surgeonHandler,
		caseHandler:      caseHandler,
		assetHandler:     assetHandler,
		auth:             auth,
		cacheMiddleware:  cacheMiddleware,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
		fallbacks:        make(map[string]bool),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Procedure endpoints
	r.handle("GET /api/procedures", r.procedureHandler.ListProcedures)
	r.handle("GET /api/procedures/{name}", r.procedureHandler.GetProcedure)

	// Surgeon endpoints
	r.handle("GET /api/surgeons", r.surgeonHandler.ListSurgeons)
	r.handle("GET /api/surgeon-detail", r.surgeonHandler.GetSurgeonDetail)
	r.handle("GET /api/surgeons-full", r.surgeonHandler.ListSurgeonRecords)

	// Case endpoints
	r.handle("GET /api/cases", r.caseHandler.ListCases)

	// Admin endpoints
	r.admin("GET /api/admin/cases", r.caseHandler.ListCases)
	r.admin("POST /api/admin/cases", r.caseHandler.UpsertCase)
	r.admin("PUT /api/admin/cases", r.caseHandler.UpsertCase)
	r.admin("DELETE /api/admin/cases", r.caseHandler.DeleteCase)
	r.admin("GET /api/admin/surgeons-full", r.surgeonHandler.ListSurgeonRecords)
	r.admin("POST /api/admin/update-surgeon-image", r.surgeonHandler.UpdateSurgeonImage)
	r.admin("POST /api/admin/upload", r.assetHandler.Upload)
	r.admin("DELETE /api/admin/delete", r.assetHandler.DeleteByKey)
	r.admin("GET /api/admin/images", r.assetHandler.ListImages)
	r.admin("DELETE /api/admin/images/{path...}", r.assetHandler.DeleteByPath)
	r.admin("GET /api/admin/assets", r.assetHandler.ListReferences)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) handle(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, h)
	r.methodFallback(pattern)
}

func (r *Router) admin(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, r.auth.RequireAdmin(h))
	r.methodFallback(pattern)
}

// methodFallback registers a method-less pattern for the same path so other
// methods get a JSON 405 instead of the mux's plain-text one
func (r *Router) methodFallback(pattern string) {
	_, path, ok := strings.Cut(pattern, " ")
	if !ok || r.fallbacks[path] {
		return
	}
	r.fallbacks[path] = true
	r.mux.HandleFunc(path, methodNotAllowed)
}

func methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"success":false,"message":"Method not allowed"}` + "\n"))
}
