package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roomly/internal/users/service"
	"roomly/pkg/config"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
)

type UserHandler struct {
	service service.UserService
	cfg     *config.Config
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		service: service,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, "Register", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pageNo, pageSize, err := httputil.ExtractPage(r, h.cfg)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	users, total, err := h.service.List(r.Context(), pageNo, pageSize)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, users, total, pageNo, pageSize); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *UserHandler) Freeze(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setFrozen(w, r, ps, "Freeze", true)
}

func (h *UserHandler) Unfreeze(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setFrozen(w, r, ps, "Unfreeze", false)
}

func (h *UserHandler) setFrozen(w http.ResponseWriter, r *http.Request, ps httprouter.Params, name string, frozen bool) {
	user, err := h.service.SetFrozen(r.Context(), ps.ByName("id"), frozen)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", name, "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *UserHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users", h.Register)
	router.GET("/api/v1/users", h.List)
	router.GET("/api/v1/users/id/:id", h.GetByID)
	router.POST("/api/v1/users/id/:id/freeze", h.Freeze)
	router.POST("/api/v1/users/id/:id/unfreeze", h.Unfreeze)
}
