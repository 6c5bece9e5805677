package site

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/platform/httputil"
	request "siteflow/pkg/platform/middleware/request"
)

// Handler exposes admin routes for inspecting provisioned sites and
// reassigning ownership.
type Handler struct {
	provisioner *Provisioner
	logger      *slog.Logger
}

// NewHandler creates a site handler.
func NewHandler(provisioner *Provisioner, logger *slog.Logger) *Handler {
	return &Handler{provisioner: provisioner, logger: logger}
}

// RegisterAdmin mounts admin site routes; the router must already carry the
// admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/sites/{id}", h.HandleGet)
	r.Put("/admin/sites/{id}/owner", h.HandleAssignOwner)
}

// AssignOwnerRequest is the payload for ownership reassignment.
type AssignOwnerRequest struct {
	IdentityID string `json:"identity_id"`
	Role       string `json:"role"`
}

func (r *AssignOwnerRequest) Sanitize() {
	r.IdentityID = strings.TrimSpace(r.IdentityID)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

func (r *AssignOwnerRequest) Validate() error {
	if r.IdentityID == "" {
		return dErrors.New(dErrors.CodeValidation, "identity_id is required")
	}
	switch r.Role {
	case "", RoleAdministrator, RoleEditor:
		return nil
	default:
		return dErrors.New(dErrors.CodeValidation, "role must be administrator or editor")
	}
}

// SiteResponse is the HTTP representation of a provisioned site.
type SiteResponse struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Address   string `json:"address"`
	Title     string `json:"title"`
	OwnerID   string `json:"owner_id"`
	OwnerRole string `json:"owner_role"`
	CreatedAt string `json:"created_at"`
}

func toSiteResponse(s *Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID.String(),
		Domain:    s.Domain,
		Path:      s.Path,
		Address:   s.Address(),
		Title:     s.Title,
		OwnerID:   s.OwnerID.String(),
		OwnerRole: s.OwnerRole,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// HandleGet returns a single provisioned site.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID, err := id.ParseSiteID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid site id"))
		return
	}

	site, err := h.provisioner.GetSite(ctx, siteID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSiteResponse(site))
}

// HandleAssignOwner reassigns site ownership.
func (h *Handler) HandleAssignOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	siteID, err := id.ParseSiteID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid site id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AssignOwnerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identityID, err := id.ParseIdentityID(req.IdentityID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "identity_id is not a valid UUID"))
		return
	}

	if err := h.provisioner.AssignOwner(ctx, siteID, identityID, req.Role); err != nil {
		h.logger.ErrorContext(ctx, "assign site owner failed", "error", err, "request_id", requestID, "site_id", siteID)
		httputil.WriteError(w, err)
		return
	}

	site, err := h.provisioner.GetSite(ctx, siteID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSiteResponse(site))
}
