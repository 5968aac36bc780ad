package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/pkg/models"
	"github.com/rodr499/kardo/pkg/utils"
)

// withClaims attaches authenticated claims the way AuthMiddleware does.
func withClaims(r *http.Request, userID uuid.UUID) *http.Request {
	claims := &utils.Claims{
		Email:            "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	}
	return r.WithContext(context.WithValue(r.Context(), userClaimsKey, claims))
}

func newProfileHandler(repo *fakeProfileRepo) *ProfileHandler {
	profileService := services.NewProfileService(repo, nil, nil, services.NewQRService(), nil)
	return NewProfileHandler(profileService, nil)
}

func TestUpdateMyProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	handler := newProfileHandler(repo)
	userID := uuid.New()

	body := `{"handle":"Jane-Doe","display_name":"Jane Doe"}`
	req := withClaims(httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(body)), userID)
	rec := httptest.NewRecorder()
	handler.UpdateMyProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got models.Profile
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Handle != "jane-doe" {
		t.Errorf("handle = %q, want lowercased jane-doe", got.Handle)
	}
	if got.DisplayName == nil || *got.DisplayName != "Jane Doe" {
		t.Errorf("display name not saved: %+v", got.DisplayName)
	}
}

func TestUpdateMyProfile_HandleTaken(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.taken["jane-doe"] = true
	handler := newProfileHandler(repo)

	body := `{"handle":"jane-doe"}`
	req := withClaims(httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(body)), uuid.New())
	rec := httptest.NewRecorder()
	handler.UpdateMyProfile(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409", rec.Code)
	}
}

func TestUpdateMyProfile_InvalidHandle(t *testing.T) {
	handler := newProfileHandler(newFakeProfileRepo())

	body := `{"handle":"x!"}`
	req := withClaims(httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(body)), uuid.New())
	rec := httptest.NewRecorder()
	handler.UpdateMyProfile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestUpdateMyProfile_Unauthenticated(t *testing.T) {
	handler := newProfileHandler(newFakeProfileRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{"handle":"jane-doe"}`))
	rec := httptest.NewRecorder()
	handler.UpdateMyProfile(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}
