// Copyright 2026 The ContactDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/contactdesk/contactdesk/internal/audit"
	"github.com/contactdesk/contactdesk/internal/contact"
	"github.com/contactdesk/contactdesk/internal/directory"
	"github.com/contactdesk/contactdesk/internal/observability/logger"
	"github.com/contactdesk/contactdesk/internal/observability/metrics"
	"github.com/contactdesk/contactdesk/internal/store/postgres"
	"github.com/contactdesk/contactdesk/internal/ticket"
	"github.com/contactdesk/contactdesk/internal/token"
)

// Inspector serves the operator debug endpoints.
type Inspector interface {
	Tables(ctx context.Context, tenantDB string) ([]string, error)
	Columns(ctx context.Context, tenantDB, table string) ([]postgres.ColumnInfo, error)
	Sample(ctx context.Context, tenantDB, table string, limit int) ([]map[string]any, error)
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	directoryService *directory.Service
	contactService   *contact.Service
	ticketService    *ticket.Service
	tokenService     *token.Service
	inspector        Inspector
	auditLogger      audit.Logger
	debugEnabled     bool

	loginCounter metric.Int64Counter
}

// NewHandler creates a new HTTP handler
func NewHandler(
	directoryService *directory.Service,
	contactService *contact.Service,
	ticketService *ticket.Service,
	tokenService *token.Service,
	inspector Inspector,
	auditLogger audit.Logger,
	meter *metrics.Meter,
	debugEnabled bool,
) *Handler {
	h := &Handler{
		directoryService: directoryService,
		contactService:   contactService,
		ticketService:    ticketService,
		tokenService:     tokenService,
		inspector:        inspector,
		auditLogger:      auditLogger,
		debugEnabled:     debugEnabled,
	}

	if meter != nil {
		counter, err := meter.Counter("login_attempts_total", "Login attempts by result")
		if err != nil {
			slog.Warn("failed to create login counter", logger.Error(err))
		} else {
			h.loginCounter = counter
		}
	}

	return h
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	r.Post("/login", h.Login)
	r.Post("/verify-token", h.VerifyToken)

	r.Route("/protected", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Get("/profile", h.GetProfile)
		r.Post("/refresh-token", h.RefreshToken)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ListContacts)
			r.Post("/", h.CreateContact)
			r.Get("/active", h.ListActiveContacts)
			r.Get("/search", h.SearchContacts)
			r.Post("/search", h.SearchContactsAdvanced)
			r.Post("/bulk-update", h.BulkUpdateContacts)
			r.Get("/{id}", h.GetContact)
			r.Put("/{id}", h.UpdateContact)
			r.Delete("/{id}", h.DeleteContact)
		})

		r.Get("/tickets", h.ListTickets)
		r.Get("/tickets/{id}", h.GetTicket)
	})

	// Inspection endpoints are off unless explicitly enabled, and even
	// then sit behind credential verification.
	if h.debugEnabled && h.inspector != nil {
		r.Route("/debug", func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/tables", h.DebugTables)
			r.Get("/structure/{table}", h.DebugColumns)
			r.Get("/sample/{table}", h.DebugSample)
		})
	}

	return r
}

// Root identifies the service.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "contactdesk",
		"status":  "running",
	})
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "contactdesk",
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the master directory, resolves the
// caller's tenant database and returns a credential together with the
// tenant's contacts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.directoryService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, directory.ErrUnknownUser) || errors.Is(err, directory.ErrInvalidPassword) {
			h.countLogin(r.Context(), "failed")
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeLoginFailed,
				Username:  req.Username,
				Resource:  "login",
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
				Metadata:  map[string]any{"reason": "invalid_credentials"},
			})
			respondError(w, r, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		slog.ErrorContext(r.Context(), "authentication failed",
			logger.Error(err),
			logger.Username(req.Username),
		)
		respondError(w, r, http.StatusInternalServerError, "authentication failed")
		return
	}

	client, err := h.directoryService.ResolveTenant(r.Context(), user)
	if err != nil {
		if errors.Is(err, directory.ErrTenantNotConfigured) {
			h.countLogin(r.Context(), "failed")
			respondError(w, r, http.StatusNotFound, "no tenant database configured for user")
			return
		}
		slog.ErrorContext(r.Context(), "tenant resolution failed",
			logger.Error(err),
			logger.Username(user.Username),
		)
		respondError(w, r, http.StatusInternalServerError, "tenant resolution failed")
		return
	}

	record, err := h.contactService.GetByUsername(r.Context(), client.DBName, user.Username)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to confirm tenant record",
			logger.Error(err),
			logger.TenantDB(client.DBName),
		)
		respondError(w, r, http.StatusInternalServerError, "failed to confirm tenant record")
		return
	}
	if record == nil {
		h.countLogin(r.Context(), "failed")
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLoginFailed,
			Username:  user.Username,
			TenantDB:  client.DBName,
			Resource:  "login",
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
			Metadata:  map[string]any{"reason": "no_tenant_record"},
		})
		respondError(w, r, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	contacts, err := h.contactService.List(r.Context(), client.DBName)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load contacts",
			logger.Error(err),
			logger.TenantDB(client.DBName),
		)
		respondError(w, r, http.StatusInternalServerError, "failed to load contacts")
		return
	}

	tokenString, expiresAt, err := h.tokenService.Issue(user.Username, client.DBName, client.ClientID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		respondError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.countLogin(r.Context(), "success")
	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeLoginSuccess,
		Username:  user.Username,
		TenantDB:  client.DBName,
		Resource:  "login",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	})
	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeTokenIssued,
		Username: user.Username,
		TenantDB: client.DBName,
		Resource: "token",
		Metadata: map[string]any{"expires_at": expiresAt},
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"access_token":  tokenString,
		"token_type":    "bearer",
		"username":      user.Username,
		"client_id":     client.ClientID,
		"database":      client.DBName,
		"expires_in":    int64(h.tokenService.Lifetime().Seconds()),
		"expires_at":    expiresAt,
		"contacts":      contacts,
		"contact_count": len(contacts),
	})
}

// VerifyTokenRequest carries a credential to inspect
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyToken reports the validity and remaining lifetime of a
// credential without requiring authentication. The token comes from
// the query string or, failing that, the request body.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		var req VerifyTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			tokenString = req.Token
		}
	}
	if tokenString == "" {
		respondError(w, r, http.StatusBadRequest, "token is required")
		return
	}

	claims, err := h.tokenService.Verify(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			respondError(w, r, http.StatusUnauthorized, "token has expired")
			return
		}
		respondError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}

	info := h.tokenService.ExpiryInfo(tokenString)
	respondJSON(w, http.StatusOK, map[string]any{
		"valid":             true,
		"is_expired":        info.IsExpired,
		"expires_at":        info.ExpiresAt,
		"issued_at":         info.IssuedAt,
		"seconds_remaining": info.SecondsRemaining,
		"minutes_remaining": info.MinutesRemaining,
		"username":          claims.Username(),
		"database":          claims.Database,
	})
}

// RefreshToken issues a fresh credential for the authenticated caller.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	tokenString, expiresAt, err := h.tokenService.Refresh(claims)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to refresh token", logger.Error(err))
		respondError(w, r, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeTokenRefreshed,
		Username: claims.Username(),
		TenantDB: claims.Database,
		Resource: "token",
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": tokenString,
		"token_type":   "bearer",
		"expires_at":   expiresAt,
	})
}

// GetProfile returns the contact record matching the caller's username.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	tenantDB := GetTenantDB(r.Context())

	profile, err := h.contactService.GetByUsername(r.Context(), tenantDB, claims.Username())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load profile",
			logger.Error(err),
			logger.Username(claims.Username()),
			logger.TenantDB(tenantDB),
		)
		respondError(w, r, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		respondError(w, r, http.StatusNotFound, "no contact record for user")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// ListContacts returns every contact in the caller's tenant.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	tenantDB := GetTenantDB(r.Context())

	contacts, err := h.contactService.List(r.Context(), tenantDB)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list contacts",
			logger.Error(err),
			logger.TenantDB(tenantDB),
		)
		respondError(w, r, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// ListActiveContacts returns contacts with the active status.
func (h *Handler) ListActiveContacts(w http.ResponseWriter, r *http.Request) {
	tenantDB := GetTenantDB(r.Context())

	contacts, err := h.contactService.ListActive(r.Context(), tenantDB)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// GetContact returns one contact by id.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tenantDB := GetTenantDB(r.Context())

	c, err := h.contactService.GetByID(r.Context(), tenantDB, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load contact")
		return
	}
	if c == nil {
		respondError(w, r, http.StatusNotFound, "contact not found")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// SearchContacts searches contacts by a name fragment. The term
// matches first or last name, case-insensitively.
func (h *Handler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("name")
	if term == "" {
		respondError(w, r, http.StatusBadRequest, "name query parameter is required")
		return
	}
	tenantDB := GetTenantDB(r.Context())

	contacts, err := h.contactService.SearchByName(r.Context(), tenantDB, term)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "search failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// SearchRequest represents a field-level search
type SearchRequest struct {
	Fields   map[string]string `json:"fields"`
	MatchAll bool              `json:"match_all"`
}

// SearchContactsAdvanced searches contacts by multiple fields. Fields
// outside the searchable set are rejected.
func (h *Handler) SearchContactsAdvanced(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Fields) == 0 {
		respondError(w, r, http.StatusBadRequest, "at least one search field is required")
		return
	}
	tenantDB := GetTenantDB(r.Context())

	contacts, err := h.contactService.SearchAdvanced(r.Context(), tenantDB, req.Fields, req.MatchAll)
	if err != nil {
		if errors.Is(err, contact.ErrInvalidSearchField) {
			respondError(w, r, http.StatusBadRequest, "search field not allowed")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "search failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// CreateContact inserts a new contact.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var values map[string]any

	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantDB := GetTenantDB(r.Context())

	id, err := h.contactService.Create(r.Context(), tenantDB, values)
	if err != nil {
		if errors.Is(err, contact.ErrNoFields) || errors.Is(err, contact.ErrInvalidSearchField) {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed to create contact",
			logger.Error(err),
			logger.TenantDB(tenantDB),
		)
		respondError(w, r, http.StatusInternalServerError, "failed to create contact")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeContactCreated,
		Username: GetClaims(r.Context()).Username(),
		TenantDB: tenantDB,
		Resource: "contact",
		Metadata: map[string]any{"contact_id": id},
	})

	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// UpdateContact applies field changes to one contact.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantDB := GetTenantDB(r.Context())

	matched, err := h.contactService.Update(r.Context(), tenantDB, id, values)
	if err != nil {
		if errors.Is(err, contact.ErrInvalidSearchField) {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, r, http.StatusInternalServerError, "failed to update contact")
		return
	}
	if !matched {
		respondError(w, r, http.StatusNotFound, "contact not found")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeContactUpdated,
		Username: GetClaims(r.Context()).Username(),
		TenantDB: tenantDB,
		Resource: "contact",
		Metadata: map[string]any{"contact_id": id},
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "contact updated",
	})
}

// DeleteContact removes one contact.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tenantDB := GetTenantDB(r.Context())

	matched, err := h.contactService.Delete(r.Context(), tenantDB, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to delete contact")
		return
	}
	if !matched {
		respondError(w, r, http.StatusNotFound, "contact not found")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeContactDeleted,
		Username: GetClaims(r.Context()).Username(),
		TenantDB: tenantDB,
		Resource: "contact",
		Metadata: map[string]any{"contact_id": id},
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "contact deleted",
	})
}

// BulkUpdateRequest applies values to every contact matching filters
type BulkUpdateRequest struct {
	Filters map[string]any `json:"filters"`
	Values  map[string]any `json:"values"`
}

// BulkUpdateContacts applies values to every contact matching the
// given filters and returns the affected row count.
func (h *Handler) BulkUpdateContacts(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantDB := GetTenantDB(r.Context())

	affected, err := h.contactService.BulkUpdate(r.Context(), tenantDB, req.Filters, req.Values)
	if err != nil {
		if errors.Is(err, contact.ErrNoFields) || errors.Is(err, contact.ErrInvalidSearchField) {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, r, http.StatusInternalServerError, "bulk update failed")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeBulkUpdate,
		Username: GetClaims(r.Context()).Username(),
		TenantDB: tenantDB,
		Resource: "contact",
		Metadata: map[string]any{"affected": affected},
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"updated": affected,
	})
}

// ListTickets returns tickets, optionally filtered by status.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tenantDB := GetTenantDB(r.Context())

	var status *int
	if raw := r.URL.Query().Get("status_id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "status_id must be an integer")
			return
		}
		status = &v
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			respondError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if v > 500 {
			v = 500
		}
		limit = v
	}

	tickets, err := h.ticketService.List(r.Context(), tenantDB, status, limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to list tickets")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// GetTicket returns one ticket by id.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid ticket id")
		return
	}
	tenantDB := GetTenantDB(r.Context())

	tkt, err := h.ticketService.GetByID(r.Context(), tenantDB, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to load ticket")
		return
	}
	if tkt == nil {
		respondError(w, r, http.StatusNotFound, "ticket not found")
		return
	}

	respondJSON(w, http.StatusOK, tkt)
}

// DebugTables lists the inspectable tenant tables.
func (h *Handler) DebugTables(w http.ResponseWriter, r *http.Request) {
	tenantDB := GetTenantDB(r.Context())
	h.auditDebug(r, "tables")

	tables, err := h.inspector.Tables(r.Context(), tenantDB)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to list tables")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

// DebugColumns returns the column layout of one tenant table.
func (h *Handler) DebugColumns(w http.ResponseWriter, r *http.Request) {
	tenantDB := GetTenantDB(r.Context())
	table := chi.URLParam(r, "table")
	h.auditDebug(r, table)

	columns, err := h.inspector.Columns(r.Context(), tenantDB, table)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"table":   table,
		"columns": columns,
	})
}

// DebugSample returns sample rows from one tenant table.
func (h *Handler) DebugSample(w http.ResponseWriter, r *http.Request) {
	tenantDB := GetTenantDB(r.Context())
	table := chi.URLParam(r, "table")
	h.auditDebug(r, table)

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	rows, err := h.inspector.Sample(r.Context(), tenantDB, table, limit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"table": table,
		"rows":  rows,
	})
}

func (h *Handler) auditDebug(r *http.Request, resource string) {
	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeDebugAccess,
		Username:  GetClaims(r.Context()).Username(),
		TenantDB:  GetTenantDB(r.Context()),
		Resource:  resource,
		IPAddress: getIPAddress(r),
	})
}

func (h *Handler) countLogin(ctx context.Context, result string) {
	if h.loginCounter == nil {
		return
	}
	h.loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// Helper functions
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid contact id")
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, map[string]any{
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"path":      r.URL.Path,
	})
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
