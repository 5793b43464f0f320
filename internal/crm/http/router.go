package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/httpx"
	"github.com/telecrm/telecrm/pkg/oauthx"
	"github.com/telecrm/telecrm/pkg/sessionx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *sessionx.Codec
	cookieName   string
	sessionTTL   time.Duration
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	publicDir    string

	store store.Store

	AuthService        *service.AuthService
	InviteService      *service.InviteService
	UserService        *service.UserService
	LeadService        *service.LeadService
	CallLogService     *service.CallLogService
	AppointmentService *service.AppointmentService
	ListService        *service.ListService
	CampaignService    *service.CampaignService
	DashboardService   *service.DashboardService
	ActivityService    *service.ActivityService

	// OAuthProvider is optional; oauth routes 404 into the static handler
	// when no provider is configured.
	OAuthProvider *oauthx.Provider
}

func NewRouter(
	codec *sessionx.Codec,
	cookieName string,
	sessionTTL time.Duration,
	buildVersion, publicDir string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		cookieName:   cookieName,
		sessionTTL:   sessionTTL,
		buildVersion: buildVersion,
		publicDir:    publicDir,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
	return r
}

func (r *Router) ApplyRoutes() {
	// Global chain: request logging, then cookie authentication. Every
	// handler below sees a resolved (possibly anonymous) identity.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CookieAuthMiddleware(r.codec, r.cookieName, r.identityResolver()),
	}

	r.registerSession()
	r.registerOAuth()
	r.registerInvites()
	r.registerLeads()
	r.registerCalls()
	r.registerAppointments()
	r.registerLists()
	r.registerUsers()
	r.registerDashboard()
	r.registerCSV()
	r.registerSystem()
	r.registerStatic()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) identityResolver() httpx.IdentityResolver {
	return func(ctx context.Context, openID string) (httpx.Identity, bool) {
		user, ok := r.AuthService.ResolveIdentity(ctx, openID)
		if !ok {
			return httpx.Identity{}, false
		}
		return httpx.Identity{
			UserID: user.ID,
			OpenID: user.OpenID,
			Name:   user.Name,
			Role:   user.Role,
		}, true
	}
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		AuthService: r.AuthService,
		Codec:       r.codec,
		CookieName:  r.cookieName,
		SessionTTL:  r.sessionTTL,
	}

	// Login is brute-forceable, so it carries the strict limit keyed by
	// IP and submitted email.
	r.Mux.Handle("POST /api/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.HandleFunc("GET /api/session/me", h.HandleMe)
	r.Mux.HandleFunc("GET /api/session/logout", h.HandleLogout)
}

func (r *Router) registerOAuth() {
	if r.OAuthProvider == nil {
		return
	}

	h := &OAuthHandler{
		AuthService: r.AuthService,
		Provider:    r.OAuthProvider,
		Codec:       r.codec,
		CookieName:  r.cookieName,
		SessionTTL:  r.sessionTTL,
	}

	r.Mux.Handle("GET /api/oauth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/oauth/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InviteHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /api/invites/issue",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.RequireAuthenticated(),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Verify and accept are public signup endpoints.
	r.Mux.Handle("POST /api/invites/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/invites/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerLeads() {
	h := &LeadHandler{LeadService: r.LeadService}

	r.Mux.Handle("POST /api/leads/create", r.secured(h.HandleCreate, domain.RoleManager))
	r.Mux.Handle("POST /api/leads/list", r.secured(h.HandleList, domain.RoleViewer))
	r.Mux.Handle("GET /api/leads/my", r.secured(h.HandleMy, domain.RoleAgent))
	r.Mux.Handle("GET /api/leads/next", r.secured(h.HandleNext, domain.RoleAgent))
	r.Mux.Handle("GET /api/leads/{id}", r.secured(h.HandleGet, domain.RoleViewer))
	r.Mux.Handle("POST /api/leads/update", r.secured(h.HandleUpdate, domain.RoleAgent))
	r.Mux.Handle("POST /api/leads/import", r.secured(h.HandleImport, domain.RoleManager))
	r.Mux.Handle("POST /api/leads/assign", r.secured(h.HandleAssign, domain.RoleManager))
}

func (r *Router) registerCalls() {
	h := &CallLogHandler{CallLogService: r.CallLogService}

	r.Mux.Handle("POST /api/calls/create", r.secured(h.HandleCreate, domain.RoleAgent))
	r.Mux.Handle("GET /api/calls/by-lead/{id}", r.secured(h.HandleListByLead, domain.RoleViewer))
	r.Mux.Handle("GET /api/calls/by-agent/{id}", r.secured(h.HandleListByAgent, domain.RoleViewer))
}

func (r *Router) registerAppointments() {
	h := &AppointmentHandler{AppointmentService: r.AppointmentService}

	r.Mux.Handle("POST /api/appointments/create", r.secured(h.HandleCreate, domain.RoleAgent))
	r.Mux.Handle("POST /api/appointments/update", r.secured(h.HandleUpdate, domain.RoleAgent))
	r.Mux.Handle("POST /api/appointments/delete", r.secured(h.HandleDelete, domain.RoleAgent))
	r.Mux.Handle("GET /api/appointments/by-owner/{id}", r.secured(h.HandleListByOwner, domain.RoleViewer))
	r.Mux.Handle("GET /api/appointments/{id}", r.secured(h.HandleGet, domain.RoleViewer))
}

func (r *Router) registerLists() {
	lh := &ListHandler{ListService: r.ListService}
	ch := &CampaignHandler{CampaignService: r.CampaignService}

	r.Mux.Handle("POST /api/lists/create", r.secured(lh.HandleCreate, domain.RoleManager))
	r.Mux.Handle("GET /api/lists", r.secured(lh.HandleListAll, domain.RoleViewer))
	r.Mux.Handle("GET /api/lists/{id}", r.secured(lh.HandleGet, domain.RoleViewer))

	r.Mux.Handle("POST /api/campaigns/create", r.secured(ch.HandleCreate, domain.RoleManager))
	r.Mux.Handle("GET /api/campaigns", r.secured(ch.HandleListAll, domain.RoleViewer))
	r.Mux.Handle("GET /api/campaigns/{id}", r.secured(ch.HandleGet, domain.RoleViewer))
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/users", r.secured(h.HandleList, domain.RoleAdmin))
	r.Mux.Handle("POST /api/users/role", r.secured(h.HandleUpdateRole, domain.RoleAdmin))
}

func (r *Router) registerDashboard() {
	dh := &DashboardHandler{DashboardService: r.DashboardService}
	ah := &ActivityHandler{ActivityService: r.ActivityService}

	r.Mux.Handle("POST /api/dashboard/kpi", r.secured(dh.HandleKPI, domain.RoleViewer))
	r.Mux.Handle("GET /api/activity", r.secured(ah.HandleRecent, domain.RoleViewer))
}

func (r *Router) registerCSV() {
	h := &CSVHandler{LeadService: r.LeadService}

	r.Mux.Handle("POST /api/csv/leads", r.secured(h.HandleExportLeads, domain.RoleViewer))
	r.Mux.Handle("GET /api/csv/sample",
		httpx.Chain(http.HandlerFunc(h.HandleSample),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

func (r *Router) registerStatic() {
	if r.publicDir == "" {
		return
	}
	r.Mux.Handle("/",
		httpx.Chain(http.FileServer(http.Dir(r.publicDir)),
			httpx.LoginWall("/login", "/api/", "/signup"),
		),
	)
}

// secured is the standard chain for protected API procedures: the caller
// must be signed in and hold at least min. Rate limited per user.
func (r *Router) secured(h http.HandlerFunc, min domain.Role) http.Handler {
	return httpx.Chain(h,
		httpx.RequireAuthenticated(),
		httpx.RequireRole(min),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
}
