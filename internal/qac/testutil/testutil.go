package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Expenditious/qac-system/internal/middleware"
	"github.com/Expenditious/qac-system/internal/qac/entity"
	"github.com/Expenditious/qac-system/internal/qac/repository"
)

const JWTSecret = "qac-system-test-secret"

// SetupTestDB opens an isolated in-memory database with all tables
// migrated. The connection pool is capped at one so every query sees
// the same in-memory store.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// NewID returns a fresh 32-char identifier for seeded rows.
func NewID() string {
	return uuid.New().String()[:32]
}

func floatPtr(v float64) *float64 { return &v }

// SeedBottleForm inserts a bottle inspection form with a routine type
// and a small parameter schema covering the common data types.
func SeedBottleForm(t *testing.T, db *gorm.DB) (*entity.Form, *entity.InspectionType, []entity.Parameter) {
	t.Helper()

	form := &entity.Form{
		ID:       NewID(),
		FormCode: "FM-QA-23",
		FormName: "Bottle Inspection Record",
		NoPrefix: "QAC",
		SeqWidth: 4,
		IsActive: true,
	}
	if err := db.Create(form).Error; err != nil {
		t.Fatalf("Failed to seed form: %v", err)
	}

	typ := &entity.InspectionType{
		ID:       NewID(),
		FormID:   form.ID,
		TypeCode: "routine",
		TypeName: "Routine Check",
		IsActive: true,
	}
	if err := db.Create(typ).Error; err != nil {
		t.Fatalf("Failed to seed inspection type: %v", err)
	}

	params := []entity.Parameter{
		{
			ID:            NewID(),
			FormID:        form.ID,
			ParameterName: "Bottle Weight",
			ParameterType: entity.ParamTypeNumeric,
			Unit:          "g",
			IsRequired:    true,
			MinValue:      floatPtr(0),
			MaxValue:      floatPtr(100),
			SpecMin:       floatPtr(24.97),
			SpecMax:       floatPtr(25.20),
			SortOrder:     1,
			IsActive:      true,
		},
		{
			ID:            NewID(),
			FormID:        form.ID,
			ParameterName: "Line",
			ParameterType: entity.ParamTypeSelect,
			IsRequired:    true,
			Options:       entity.StringList{"Line 1", "Line 2", "Line 3"},
			SortOrder:     2,
			IsActive:      true,
		},
		{
			ID:            NewID(),
			FormID:        form.ID,
			ParameterName: "Visual OK",
			ParameterType: entity.ParamTypeBoolean,
			SortOrder:     3,
			IsActive:      true,
		},
		{
			ID:            NewID(),
			FormID:        form.ID,
			ParameterName: "Remarks",
			ParameterType: entity.ParamTypeTextarea,
			SortOrder:     4,
			IsActive:      true,
		},
	}
	for i := range params {
		if err := db.Create(&params[i]).Error; err != nil {
			t.Fatalf("Failed to seed parameter: %v", err)
		}
	}

	return form, typ, params
}

// SeedTestUser inserts an active user with the given role and returns it.
func SeedTestUser(t *testing.T, db *gorm.DB, username, role string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           NewID(),
		Username:     username,
		PasswordHash: "x",
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group guarded by JWT auth.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a signed access token for handler tests.
func GenerateTestToken(userID, name, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"uid":  userID,
		"name": name,
		"role": role,
		"type": "access",
		"iss":  "qac-system",
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns an admin token.
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Test Admin", "admin")
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes the JSON response body.
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return resp
}

// RequireCode fails the test unless the recorder has the given HTTP status.
func RequireCode(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, want, w.Body.String())
	}
}
