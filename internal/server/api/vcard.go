package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rodr499/kardo/internal/server/services"
)

type VCardHandler struct {
	profileService *services.ProfileService
}

func NewVCardHandler(profileService *services.ProfileService) *VCardHandler {
	return &VCardHandler{profileService: profileService}
}

// DownloadVCard handles GET /u/{handle}/vcf (and the /u/{handle}.vcf
// alias): the "Add to Contacts" download.
func (h *VCardHandler) DownloadVCard(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	profile, err := h.profileService.GetPublicProfile(r.Context(), handle)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	vcf := services.BuildVCard(profile, handle)

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", handle+".vcf"))
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(vcf))
}
