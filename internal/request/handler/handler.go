// Package handler exposes the site request workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"siteflow/internal/request/models"
	"siteflow/internal/request/service"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/platform/httputil"
	"siteflow/pkg/platform/middleware/admin"
	request "siteflow/pkg/platform/middleware/request"
)

// Handler exposes the public submission route and the admin review routes.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// NewHandler creates a site request handler.
func NewHandler(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts public routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/site-requests", h.HandleSubmit)
}

// RegisterAdmin mounts review routes; the router must already carry the
// admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/site-requests", h.HandleList)
	r.Get("/admin/site-requests/{id}", h.HandleGet)
	r.Post("/admin/site-requests/{id}/approve", h.HandleApprove)
	r.Post("/admin/site-requests/{id}/reject", h.HandleReject)
}

// HandleSubmit records a new pending site request.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	requesterID, err := id.ParseIdentityID(req.RequesterID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "requester_id is not a valid UUID"))
		return
	}

	created, err := h.service.Submit(ctx, requesterID, req.RequestedName)
	if err != nil {
		h.logger.ErrorContext(ctx, "submit site request failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.ToResponse(created))
}

// HandleList returns requests for review, optionally filtered by status.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter *models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter = &status
	}

	requests, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list site requests failed", "error", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	resp := models.ListResponse{
		Requests: make([]models.SiteRequestResponse, 0, len(requests)),
		Total:    len(requests),
	}
	for _, req := range requests {
		resp.Requests = append(resp.Requests, models.ToResponse(req))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet returns a single request.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	req, err := h.service.Get(ctx, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToResponse(req))
}

// HandleApprove approves a pending request and provisions its site.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	updated, created, err := h.service.Approve(ctx, requestID, actorFrom(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "approve site request failed",
			"error", err,
			"request_id", request.GetRequestID(ctx),
			"site_request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ApprovalResponse{
		Request: models.ToResponse(updated),
		SiteID:  created.ID.String(),
		Address: created.Address(),
	})
}

// HandleReject rejects a pending request.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request id"))
		return
	}

	updated, err := h.service.Reject(ctx, requestID, actorFrom(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "reject site request failed",
			"error", err,
			"request_id", request.GetRequestID(ctx),
			"site_request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToResponse(updated))
}

// actorFrom identifies the reviewing administrator for the audit trail.
func actorFrom(ctx context.Context) string {
	if actor := admin.GetAdminActorID(ctx); actor != "" {
		return actor
	}
	return "admin"
}
