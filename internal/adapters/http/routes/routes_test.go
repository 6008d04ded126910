package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"qraksha/internal/adapters/cache"
	"qraksha/internal/adapters/http/middleware"
	"qraksha/internal/config"
	"qraksha/internal/pkg/jwt"
	"qraksha/internal/pkg/password"
	"qraksha/internal/pkg/testutil"

	_ "qraksha/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type harness struct {
	app *fiber.App
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.AppMode = "prod"
	cfg.Seed = config.SeedConfig{AdminUsername: "admin", AdminPassword: "admin-pw"}
	require.NoError(t, config.NewSeeder(db, cfg.Seed).Run(context.Background()))

	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	Setup(app, db, cfg, mc)

	return &harness{app: app, cfg: cfg}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (int, []byte, http.Header) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out, resp.Header
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func jdoe() map[string]any {
	return map[string]any{
		"username":          "jdoe",
		"name":              "John Doe",
		"bloodType":         "O+",
		"department":        "Eng",
		"password":          "x",
		"emergencyContacts": []map[string]string{{"name": "Jane", "phone": "555-0123"}},
	}
}

// registerAndLogin returns the employee id and an employee token
func (h *harness) registerAndLogin(t *testing.T, body map[string]any) (string, string) {
	t.Helper()
	code, raw, _ := h.do(t, http.MethodPost, "/api/employees/register", "", body)
	require.Equal(t, http.StatusCreated, code, string(raw))

	code, raw, _ = h.do(t, http.MethodPost, "/api/employees/login", "", map[string]string{
		"username": body["username"].(string),
		"password": body["password"].(string),
	})
	require.Equal(t, http.StatusOK, code, string(raw))
	m := decode(t, raw)
	return m["userId"].(string), m["token"].(string)
}

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	code, raw, _ := h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "admin", "password": "admin-pw"})
	require.Equal(t, http.StatusOK, code, string(raw))
	m := decode(t, raw)
	assert.Equal(t, "Login successful!", m["message"])
	return m["token"].(string)
}

func TestRegisterThenLogin(t *testing.T) {
	h := newHarness(t)

	code, raw, _ := h.do(t, http.MethodPost, "/api/employees/register", "", jdoe())
	require.Equal(t, http.StatusCreated, code, string(raw))
	body := decode(t, raw)
	assert.Equal(t, "Employee Registered Successfully!", body["message"])
	employee := body["employee"].(map[string]any)
	assert.Equal(t, "jdoe", employee["username"])
	assert.NotContains(t, employee, "password")
	assert.True(t, strings.HasSuffix(employee["qrCode"].(string), "/user/"+employee["id"].(string)))

	code, raw, _ = h.do(t, http.MethodPost, "/api/employees/login", "", map[string]string{"username": "jdoe", "password": "x"})
	require.Equal(t, http.StatusOK, code, string(raw))
	login := decode(t, raw)
	assert.NotEmpty(t, login["token"])
	assert.Equal(t, employee["id"], login["userId"])
}

func TestRegisterRejects(t *testing.T) {
	h := newHarness(t)

	missing := jdoe()
	missing["emergencyContacts"] = []map[string]string{}
	code, raw, _ := h.do(t, http.MethodPost, "/api/employees/register", "", missing)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "All fields are required, and emergencyContacts must be a non-empty array.", decode(t, raw)["error"])

	long := jdoe()
	long["password"] = strings.Repeat("p", 80)
	code, raw, _ = h.do(t, http.MethodPost, "/api/employees/register", "", long)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "password must be at most 72 bytes", decode(t, raw)["error"])

	code, _, _ = h.do(t, http.MethodPost, "/api/employees/register", "", jdoe())
	require.Equal(t, http.StatusCreated, code)
	code, raw, _ = h.do(t, http.MethodPost, "/api/employees/register", "", jdoe())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, decode(t, raw)["error"], "Username already taken")

	code, raw, _ = h.do(t, http.MethodPost, "/api/employees/login", "", map[string]string{"username": "jdoe", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials.", decode(t, raw)["error"])

	code, _, _ = h.do(t, http.MethodPost, "/api/employees/login", "", map[string]string{"username": "jdoe"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	h := newHarness(t)
	_, employeeToken := h.registerAndLogin(t, jdoe())

	expired, err := jwt.GenerateAccessToken("1", "admin", "admin", h.cfg.JWT.Secret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "garbage", http.StatusUnauthorized},
		{"expired", expired, http.StatusUnauthorized},
		{"employee token", employeeToken, http.StatusForbidden},
		{"admin token", h.adminToken(t), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/admin/employees", "/api/admin/sos-alerts"} {
				code, raw, _ := h.do(t, http.MethodGet, path, tt.token, nil)
				assert.Equal(t, tt.want, code, "%s: %s", path, raw)
			}
		})
	}

	code, _, _ := h.do(t, http.MethodGet, "/api/employees/me", h.adminToken(t), nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminDirectory(t *testing.T) {
	h := newHarness(t)
	id, _ := h.registerAndLogin(t, jdoe())
	other := jdoe()
	other["username"], other["name"], other["department"] = "asmith", "Ann Smith", "Ops"
	h.registerAndLogin(t, other)
	admin := h.adminToken(t)

	code, raw, hdr := h.do(t, http.MethodGet, "/api/admin/employees", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(raw), "password")
	assert.Equal(t, "no-store, no-cache, must-revalidate", hdr.Get("Cache-Control"))
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Ann Smith", list[0]["name"])

	code, raw, _ = h.do(t, http.MethodGet, "/api/admin/employees?department=Eng", admin, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	code, raw, _ = h.do(t, http.MethodGet, "/api/admin/employees?limit=1&page=2", admin, nil)
	require.Equal(t, http.StatusOK, code)
	page := decode(t, raw)
	assert.Len(t, page["data"], 1)
	meta := page["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.Equal(t, false, meta["hasNext"])

	for _, path := range []string{"/api/admin/employees", "/api/admin/sos-alerts"} {
		code, raw, _ = h.do(t, http.MethodGet, path+"?page=100000000000000000&limit=100", admin, nil)
		require.Equal(t, http.StatusOK, code, string(raw))
		assert.Empty(t, decode(t, raw)["data"])
	}

	code, raw, _ = h.do(t, http.MethodGet, "/api/admin/employee/"+id, admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "jdoe", decode(t, raw)["username"])

	code, raw, _ = h.do(t, http.MethodDelete, "/api/admin/employee/"+id, admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee deleted successfully", decode(t, raw)["message"])

	code, raw, _ = h.do(t, http.MethodDelete, "/api/admin/employee/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Employee not found", decode(t, raw)["error"])

	code, _, _ = h.do(t, http.MethodGet, "/api/admin/employee/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSOSFlow(t *testing.T) {
	h := newHarness(t)
	id, employeeToken := h.registerAndLogin(t, jdoe())
	admin := h.adminToken(t)

	code, raw, _ := h.do(t, http.MethodPost, "/api/employees/sos", employeeToken, map[string]float64{"lat": 12.97, "lng": 77.59})
	require.Equal(t, http.StatusCreated, code, string(raw))
	alert := decode(t, raw)["alert"].(map[string]any)
	assert.Equal(t, "active", alert["status"])
	assert.Equal(t, id, alert["employeeId"])
	alertID := alert["id"].(string)

	code, _, _ = h.do(t, http.MethodPost, "/api/employees/sos", employeeToken, map[string]float64{"lat": 12.97})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = h.do(t, http.MethodPost, "/api/employees/sos", employeeToken, nil)
	require.Equal(t, http.StatusCreated, code)

	code, raw, _ = h.do(t, http.MethodGet, "/api/employees/sos", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	var own []map[string]any
	require.NoError(t, json.Unmarshal(raw, &own))
	assert.Len(t, own, 2)

	code, _, _ = h.do(t, http.MethodGet, "/api/admin/sos-alerts?status=bogus", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	for i := 0; i < 2; i++ {
		code, raw, _ = h.do(t, http.MethodPut, "/api/admin/sos-alerts/"+alertID+"/resolve", admin, nil)
		require.Equal(t, http.StatusOK, code, string(raw))
		resolved := decode(t, raw)["alert"].(map[string]any)
		assert.Equal(t, "resolved", resolved["status"])
	}

	code, _, _ = h.do(t, http.MethodPut, "/api/admin/sos-alerts/missing/resolve", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, raw, _ = h.do(t, http.MethodGet, "/api/admin/sos-alerts?status=active", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var active []map[string]any
	require.NoError(t, json.Unmarshal(raw, &active))
	require.Len(t, active, 1)
	assert.Equal(t, "John Doe", active[0]["employeeName"])
	assert.NotEqual(t, alertID, active[0]["id"])
}

func TestPublicProfileAndQRCode(t *testing.T) {
	h := newHarness(t)
	id, employeeToken := h.registerAndLogin(t, jdoe())

	code, raw, hdr := h.do(t, http.MethodGet, "/api/employees/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "John Doe", decode(t, raw)["name"])
	assert.NotContains(t, string(raw), "password")
	assert.Equal(t, "private, max-age=300", hdr.Get("Cache-Control"))

	code, _, _ = h.do(t, http.MethodGet, "/api/employees/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, raw, hdr = h.do(t, http.MethodGet, "/api/employees/"+id+"/qr.png?size=128", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "image/png", hdr.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))

	code, raw, _ = h.do(t, http.MethodGet, "/api/employees/"+id+"/qr.png?format=dataurl", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(decode(t, raw)["qrCode"].(string), "data:image/png;base64,"))

	code, _, _ = h.do(t, http.MethodGet, "/api/employees/"+id+"/qr.png?format=svg", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, raw, _ = h.do(t, http.MethodPut, "/api/employees/me", employeeToken, map[string]any{"department": "Ops"})
	require.Equal(t, http.StatusOK, code, string(raw))
	assert.Equal(t, "Ops", decode(t, raw)["department"])

	code, raw, _ = h.do(t, http.MethodGet, "/api/employees/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ops", decode(t, raw)["department"])

	code, raw, _ = h.do(t, http.MethodGet, "/api/employees/me", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, decode(t, raw)["id"])
}

func TestOperationalEndpoints(t *testing.T) {
	h := newHarness(t)

	code, raw, _ := h.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	checks := decode(t, raw)["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "healthy", checks["cache"])

	code, raw, _ = h.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "prod", decode(t, raw)["mode"])

	code, raw, _ = h.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "qraksha_active_alerts")

	code, raw, _ = h.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "QRaksha API")
}
