package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/czarkazmx1x/stagifyai-saas/config"
	"github.com/czarkazmx1x/stagifyai-saas/database"
	genclient "github.com/czarkazmx1x/stagifyai-saas/integrations/staging"
	"github.com/czarkazmx1x/stagifyai-saas/models"
	stagingsvc "github.com/czarkazmx1x/stagifyai-saas/services/staging"
	"github.com/czarkazmx1x/stagifyai-saas/storage"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
	"github.com/czarkazmx1x/stagifyai-saas/utils"
)

type testEnv struct {
	app  *fiber.App
	db   *gorm.DB
	cfg  config.Config
	gate *tenancy.Gate
}

func newTestEnv(t *testing.T, limits tenancy.PlanLimits) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := config.Config{
		Env:       "test",
		JWTSecret: "secret-de-test",
	}

	directory := tenancy.NewDirectory(db)
	meter := tenancy.NewMeter(db, limits)
	gate := tenancy.NewGate(directory, meter)

	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	svc := stagingsvc.NewService(db, &genclient.MockGenerator{}, meter, zap.NewNop())

	app := fiber.New()
	SetupAuthRoutes(app, NewAuthHandler(db, cfg, gate))
	SetupProjectRoutes(app, cfg, gate, NewProjectsHandler(db, store, svc, meter))
	SetupTenantRoutes(app, cfg, gate, NewTenantsHandler(db))
	SetupUsageRoutes(app, cfg, gate, NewUsageHandler(meter))

	return &testEnv{app: app, db: db, cfg: cfg, gate: gate}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// register crée un compte et renvoie le token du propriétaire.
func (e *testEnv) register(t *testing.T, tenantName, email string) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"tenant_name": tenantName,
		"email":       email,
		"password":    "motdepasse8",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)["token"].(string)
}

// addUser crée directement un utilisateur du tenant avec le rôle voulu et
// renvoie son token via /auth/login.
func (e *testEnv) addUser(t *testing.T, tenantID uint, email, role string) string {
	t.Helper()

	hash, err := utils.HashPassword("motdepasse8")
	require.NoError(t, err)
	user := models.User{
		TenantID: tenantID,
		Email:    email,
		Password: hash,
		Role:     role,
		Status:   models.StatusActive,
	}
	require.NoError(t, e.db.Create(&user).Error)

	resp := e.request(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": "motdepasse8",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody(t, resp)["token"].(string)
}

func (e *testEnv) tenantBySlugPrefix(t *testing.T, name string) models.Tenant {
	t.Helper()

	var tenant models.Tenant
	require.NoError(t, e.db.Where("name = ?", name).First(&tenant).Error)
	return tenant
}

func (e *testEnv) uploadPhoto(t *testing.T, projectID string, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="salon.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID+"/photo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
