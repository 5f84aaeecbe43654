package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderRole     = "X-Role"

	msgMissingTenant = "отсутствует заголовок X-Tenant-ID"
	msgInvalidTenant = "некорректный X-Tenant-ID"
	msgUnknownTenant = "арендатор не найден"
	msgInvalidRole   = "некорректная роль в X-Role"
	msgForbidden     = "недостаточно прав"
)

type contextKey int

const identityKey contextKey = iota

// Identity арендатор и роль текущего запроса
type Identity struct {
	TenantID int64
	PlanTier domain.PlanTier
	Role     Role
}

// TenantRepository источник тарифа арендатора
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// WithIdentity кладёт identity в контекст
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity извлекает identity из контекста
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Auth проверяет X-Tenant-ID и X-Role и подгружает тариф арендатора
func Auth(tenants TenantRepository, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderTenantID)
			if raw == "" {
				handlers.RespondUnauthorized(w, msgMissingTenant)
				return
			}
			tenantID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || tenantID <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidTenant)
				return
			}

			role, ok := ParseRole(r.Header.Get(HeaderRole))
			if !ok {
				log.Warn("Auth: invalid role=%q for tenant=%d", r.Header.Get(HeaderRole), tenantID)
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}

			tenant, err := tenants.GetByID(r.Context(), tenantID)
			if err != nil {
				if errors.Is(err, tenantRepo.ErrTenantNotFound) {
					log.Warn("Auth: tenant=%d not found", tenantID)
					handlers.RespondUnauthorized(w, msgUnknownTenant)
					return
				}
				log.Error("Auth: failed to load tenant=%d: %v", tenantID, err)
				handlers.RespondInternalError(w)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				TenantID: tenant.ID,
				PlanTier: tenant.PlanTier,
				Role:     role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorizer проверяет права роли по матрице
type Authorizer struct {
	perms Permissions
}

// NewAuthorizer создает Authorizer
func NewAuthorizer(perms Permissions) *Authorizer {
	return &Authorizer{perms: perms}
}

// Require пропускает запрос только при наличии права у роли
func (a *Authorizer) Require(perm Permission, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingTenant)
			return
		}
		if !a.perms.Can(id.Role, perm) {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next(w, r)
	}
}
