package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smartplates/smartplates-api/internal/config"
)

const testSecret = "test-secret-key-for-jwt-signing"

func init() {
	gin.SetMode(gin.TestMode)
}

func makeTestToken(subject, tokenType, role string, expiry time.Time, secret string) string {
	claims := jwt.MapClaims{
		"sub":  subject,
		"exp":  expiry.Unix(),
		"iat":  time.Now().Unix(),
		"type": tokenType,
		"name": "Test User",
		"role": role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString([]byte(secret))
	return s
}

func testConfig() *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			JwtSecretKey: testSecret,
		},
	}
}

func setupTokenRouter() *gin.Engine {
	r := gin.New()
	r.Use(VerifyTokenMiddleware(testConfig()))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return r
}

func setupOptionalRouter() *gin.Engine {
	r := gin.New()
	r.Use(OptionalTokenMiddleware(testConfig()))
	r.GET("/test", func(c *gin.Context) {
		authed, _ := c.Get("authenticated")
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})
	return r
}

func TestVerifyToken_ValidAccessToken(t *testing.T) {
	r := setupTokenRouter()

	token := makeTestToken("auth0|abc123", "access", "member", time.Now().Add(15*time.Minute), testSecret)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestVerifyToken_MissingAuthorizationHeader(t *testing.T) {
	r := setupTokenRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestVerifyToken_ExpiredToken(t *testing.T) {
	r := setupTokenRouter()

	token := makeTestToken("auth0|abc123", "access", "member", time.Now().Add(-1*time.Hour), testSecret)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	r := setupTokenRouter()

	token := makeTestToken("auth0|abc123", "access", "member", time.Now().Add(15*time.Minute), "some-other-secret")

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestVerifyToken_RefreshTokenRejected(t *testing.T) {
	r := setupTokenRouter()

	token := makeTestToken("auth0|abc123", "refresh", "member", time.Now().Add(15*time.Minute), testSecret)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestVerifyToken_MissingSubject(t *testing.T) {
	r := setupTokenRouter()

	claims := jwt.MapClaims{
		"exp":  time.Now().Add(15 * time.Minute).Unix(),
		"type": "access",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString([]byte(testSecret))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+s)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestOptionalToken_NoHeaderPassesAnonymous(t *testing.T) {
	r := setupOptionalRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != `{"authenticated":false}` {
		t.Errorf("body = %s, want authenticated false", got)
	}
}

func TestOptionalToken_ValidTokenAuthenticates(t *testing.T) {
	r := setupOptionalRouter()

	token := makeTestToken("auth0|abc123", "access", "member", time.Now().Add(15*time.Minute), testSecret)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != `{"authenticated":true}` {
		t.Errorf("body = %s, want authenticated true", got)
	}
}

func TestOptionalToken_MalformedTokenRejected(t *testing.T) {
	r := setupOptionalRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
