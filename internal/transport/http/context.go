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

	"github.com/contactdesk/contactdesk/internal/token"
)

type contextKey string

const (
	claimsKey   contextKey = "claims"
	tenantDBKey contextKey = "tenant_db"
)

// GetClaims retrieves the verified credential claims from context.
func GetClaims(ctx context.Context) *token.Claims {
	if val, ok := ctx.Value(claimsKey).(*token.Claims); ok {
		return val
	}
	return nil
}

// GetTenantDB retrieves the tenant database name from context. It is
// set by AuthMiddleware from the verified credential, never from
// request headers.
func GetTenantDB(ctx context.Context) string {
	if val, ok := ctx.Value(tenantDBKey).(string); ok {
		return val
	}
	return ""
}
