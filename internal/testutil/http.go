package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ClerkID string
	Email   string
	Role    string
}

// GuestUser returns a TestUser with the guest role.
func GuestUser() TestUser {
	return TestUser{
		ClerkID: "user_" + primitive.NewObjectID().Hex(),
		Email:   "guest@test.com",
		Role:    models.RoleGuest,
	}
}

// OwnerUser returns a TestUser with the hotelOwner role.
func OwnerUser() TestUser {
	return TestUser{
		ClerkID: "user_" + primitive.NewObjectID().Hex(),
		Email:   "owner@test.com",
		Role:    models.RoleHotelOwner,
	}
}

// WithUser places an identity and user profile in the request context,
// bypassing the token middleware so handlers can be tested directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	ctx := auth.WithIdentity(r.Context(), user.ClerkID)
	ctx = auth.WithUser(ctx, &models.User{
		ClerkID: user.ClerkID,
		Email:   user.Email,
		Role:    user.Role,
	})
	return r.WithContext(ctx)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// SignToken mints an HS256 bearer token for middleware tests.
func SignToken(secret, sub string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return s
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
