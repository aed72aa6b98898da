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
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/contactdesk/contactdesk/internal/audit"
	"github.com/contactdesk/contactdesk/internal/observability/logger"
	"github.com/contactdesk/contactdesk/internal/token"
)

// Tenant Context Principles:
// 1. The tenant database is derived EXCLUSIVELY from the verified credential
// 2. No header or query parameter may select a tenant
// 3. A credential without a tenant database grants nothing

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware verifies the bearer credential and adds its claims and
// tenant database to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			respondError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.tokenService.Verify(tokenString)
		if err != nil {
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeTokenRejected,
				Resource:  "token",
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
				Metadata:  map[string]any{"reason": rejectReason(err)},
			})
			if errors.Is(err, token.ErrExpiredToken) {
				respondError(w, r, http.StatusUnauthorized, "token has expired")
				return
			}
			respondError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		if claims.Database == "" {
			respondError(w, r, http.StatusUnauthorized, "token carries no tenant database")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, tenantDBKey, claims.Database)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func rejectReason(err error) string {
	if errors.Is(err, token.ErrExpiredToken) {
		return "expired"
	}
	return "invalid"
}
