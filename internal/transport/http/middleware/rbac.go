package middleware

import (
	"context"
	"net/http"
	"sync"

	"sirh/internal/domain/auth"
	"sirh/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.RoleID, permission)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
				return
			}
			if !allowed {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CachedPermissionStore memoizes role permission sets; role grants only
// change through seeding, so a process-lifetime cache is safe.
type CachedPermissionStore struct {
	Store *auth.Store

	mu    sync.RWMutex
	roles map[string]map[string]bool
}

func NewCachedPermissionStore(store *auth.Store) *CachedPermissionStore {
	return &CachedPermissionStore{Store: store, roles: map[string]map[string]bool{}}
}

func (c *CachedPermissionStore) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	c.mu.RLock()
	perms, ok := c.roles[roleID]
	c.mu.RUnlock()
	if ok {
		return perms[permission], nil
	}

	keys, err := c.Store.RolePermissionKeys(ctx, roleID)
	if err != nil {
		return false, err
	}
	perms = make(map[string]bool, len(keys))
	for _, key := range keys {
		perms[key] = true
	}

	c.mu.Lock()
	c.roles[roleID] = perms
	c.mu.Unlock()

	return perms[permission], nil
}
