package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mealdex/backend/internal/database"
	"github.com/mealdex/backend/internal/middleware"
	"github.com/mealdex/backend/internal/service"
)

// setupTestRouter builds the API against an in-memory SQLite database.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db, ""))

	authService := service.NewAuthService(db, "test-secret")
	authHandler := NewAuthHandler(authService)
	recipeHandler := NewRecipeHandler(service.NewRecipeService(db), nil)
	tagHandler := NewTagHandler(service.NewTagService(db))

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	recipeHandler.RegisterRoutes(protected)
	tagHandler.RegisterRoutes(protected)

	return engine, db
}

// registerTestUser creates a user through the API and returns its token.
func registerTestUser(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req = httptest.NewRequest(method, path, nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(data))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// sampleRecipe returns a valid create payload; overrides are merged in.
func sampleRecipe(overrides map[string]interface{}) map[string]interface{} {
	payload := map[string]interface{}{
		"title":        "Sample title",
		"time_minutes": 4,
		"price":        "1.50",
		"description":  "Sample description",
		"link":         "https://example.com/recipe.pdf",
	}
	for k, v := range overrides {
		payload[k] = v
	}
	return payload
}

// createTestRecipe posts a recipe and returns its id.
func createTestRecipe(t *testing.T, engine *gin.Engine, token string, overrides map[string]interface{}) uint {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, sampleRecipe(overrides))
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}

// createTestTag posts a tag and returns its id.
func createTestTag(t *testing.T, engine *gin.Engine, token, name string) uint {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/tags", token, map[string]interface{}{"name": name})
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp TagResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}
