package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/pkg/models"
)

// maxImageUploadBytes bounds avatar uploads.
const maxImageUploadBytes = 5 << 20

type ProfileHandler struct {
	profileService *services.ProfileService
	cardService    *services.CardService
}

func NewProfileHandler(profileService *services.ProfileService, cardService *services.CardService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		cardService:    cardService,
	}
}

// GetMyProfile handles GET /api/profile. The profile is created lazily on
// first visit, mirroring the claim flow.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	profile, err := h.cardService.EnsureProfile(r.Context(), userID, claims.Email)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateMyProfile handles PUT /api/profile.
func (h *ProfileHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profileService.SaveProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidHandle):
			respondErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrHandleTaken):
			respondErrorJSON(w, http.StatusConflict, "this handle is already taken, choose another")
		default:
			respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetPublicProfile handles GET /u/{handle} and GET /api/profiles/{handle},
// returning the public card page data.
func (h *ProfileHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	profile, err := h.profileService.GetPublicProfile(r.Context(), handle)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondErrorJSON(w, http.StatusNotFound, "profile not found")
			return
		}
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UploadAvatar handles POST /api/profile/avatar (multipart, field "file").
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid upload, images are limited to 5MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondErrorJSON(w, http.StatusBadRequest, "upload must be an image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".png"
	}

	publicURL, err := h.profileService.UploadAvatar(r.Context(), userID, contentType, ext, data)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.UploadImageResponse{URL: publicURL})
}

// GenerateQRCode handles POST /api/profile/qr: renders and stores the QR
// image pointing at the caller's public page.
func (h *ProfileHandler) GenerateQRCode(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	publicURL, err := h.profileService.GenerateQRCode(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondErrorJSON(w, http.StatusBadRequest, "save your profile with a handle first")
			return
		}
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.UploadImageResponse{URL: publicURL})
}

// DeleteAccount handles DELETE /api/account: releases cards, deletes
// stored images, the profile row and finally the auth user.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	warning, err := h.profileService.DeleteAccount(r.Context(), userID)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.DeleteAccountResponse{
		Success: true,
		Warning: warning,
	})
}
