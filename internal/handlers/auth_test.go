package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/auth"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/middleware"
	"golang.org/x/crypto/bcrypt"
)

// userRow scripts the SELECT used by GetByEmail; last_login stays NULL
func userRow(id uuid.UUID, email, name, hash string) stubRow {
	created := time.Now()
	return stubRow{scan: func(dest ...any) error {
		*(dest[0].(*uuid.UUID)) = id
		*(dest[1].(*string)) = email
		*(dest[2].(*string)) = name
		*(dest[3].(*string)) = hash
		*(dest[4].(*time.Time)) = created
		return nil
	}}
}

func TestLoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	// The UPDATE for last_login fails; the login must still hand out a token
	db := &stubDB{
		rows:    []stubRow{userRow(uuid.New(), "student@example.com", "Student", string(hash))},
		execErr: errors.New("connection reset"),
	}

	jwtService := auth.NewJWTService("test-secret", "smartstudy-test")
	r := gin.New()
	r.POST("/api/auth/login", middleware.WithDB(db), Login(jwtService))

	body := `{"email":"student@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"`)
	assert.Contains(t, w.Body.String(), "student@example.com")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	db := &stubDB{rows: []stubRow{userRow(uuid.New(), "student@example.com", "Student", string(hash))}}

	jwtService := auth.NewJWTService("test-secret", "smartstudy-test")
	r := gin.New()
	r.POST("/api/auth/login", middleware.WithDB(db), Login(jwtService))

	body := `{"email":"student@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), `"token"`)
}
