package identity

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

// Handler exposes identity registration and the explicit admin deletion route.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates an identity handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts public identity routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identities", h.HandleRegister)
}

// RegisterAdmin mounts admin identity routes; the router must already carry
// the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/identities/{id}", h.HandleGet)
	r.Get("/admin/identities/by-login/{login}", h.HandleGetByLogin)
	r.Delete("/admin/identities/{id}", h.HandleDelete)
}

// RegisterRequest is the payload for identity registration.
type RegisterRequest struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

func (r *RegisterRequest) Sanitize() {
	r.Login = strings.TrimSpace(r.Login)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *RegisterRequest) Validate() error {
	if r.Login == "" {
		return dErrors.New(dErrors.CodeValidation, "login is required")
	}
	if !IsValidEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email address is not valid")
	}
	return nil
}

// IdentityResponse is the HTTP representation of an identity.
type IdentityResponse struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toIdentityResponse(ident *Identity) IdentityResponse {
	return IdentityResponse{
		ID:        ident.ID.String(),
		Login:     ident.Login,
		Email:     ident.Email,
		CreatedAt: ident.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// HandleRegister creates an identity.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ident, err := h.service.Register(ctx, req.Login, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "register identity failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toIdentityResponse(ident))
}

// HandleGet returns a single identity by ID.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID, err := id.ParseIdentityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid identity id"))
		return
	}

	ident, err := h.service.Get(ctx, identityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

// HandleGetByLogin returns a single identity by its login, case-insensitively.
func (h *Handler) HandleGetByLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ident, err := h.service.GetByLogin(ctx, chi.URLParam(r, "login"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

// HandleDelete removes an identity.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	identityID, err := id.ParseIdentityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid identity id"))
		return
	}

	if err := h.service.Delete(ctx, identityID); err != nil {
		h.logger.ErrorContext(ctx, "delete identity failed", "error", err, "request_id", requestID, "identity_id", identityID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
