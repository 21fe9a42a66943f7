package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"petcare-clinic-server/internal/config"
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/uploads"
	"petcare-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
		UploadDir:                 t.TempDir(),
		Environment:               "development",
	}

	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	router := gin.New()
	SetupRoutes(router, nil, cfg, store)
	return router, cfg
}

func tokenFor(t *testing.T, cfg *config.Config, role models.Role) string {
	t.Helper()
	user := models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Role:      role,
		Status:    models.UserActive,
	}
	access, _, err := utils.GenerateTokens(&user, cfg)
	if err != nil {
		t.Fatalf("GenerateTokens() failed: %v", err)
	}
	return access
}

// Role gates must reject a disallowed caller before any handler runs.
// Pet medical history in particular is staff-only: an owner token must
// not be able to pull another owner's pet records by id.
func TestRoleGates(t *testing.T) {
	router, cfg := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
	}{
		{name: "owner cannot read pet medical history", method: http.MethodGet, path: "/api/v1/pets/pet-1/medical", role: models.RolePetOwner},
		{name: "owner cannot update appointment status", method: http.MethodPatch, path: "/api/v1/appointments/a-1/status", role: models.RolePetOwner},
		{name: "owner cannot delete pets", method: http.MethodDelete, path: "/api/v1/pets/pet-1", role: models.RolePetOwner},
		{name: "owner cannot list users", method: http.MethodGet, path: "/api/v1/users", role: models.RolePetOwner},
		{name: "vet cannot book appointments", method: http.MethodPost, path: "/api/v1/appointments", role: models.RoleVeterinarian},
		{name: "vet cannot cancel appointments", method: http.MethodPatch, path: "/api/v1/appointments/a-1/cancel", role: models.RoleVeterinarian},
		{name: "vet cannot manage users", method: http.MethodDelete, path: "/api/v1/users/u-1", role: models.RoleVeterinarian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, tt.role))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("%s %s as %s: status = %d, want %d", tt.method, tt.path, tt.role, rec.Code, http.StatusForbidden)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/pets/pet-1/medical",
		"/api/v1/appointments",
		"/api/v1/dashboard",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}
