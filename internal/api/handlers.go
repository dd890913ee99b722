package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/service"
)

// Handler contains dependencies for API handlers.
type Handler struct {
	plans     service.PlanService
	gen       service.GenerationService
	snapshots service.SnapshotService
	shares    service.ShareService
	log       zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(plans service.PlanService, gen service.GenerationService, snapshots service.SnapshotService, shares service.ShareService, log zerolog.Logger) *Handler {
	return &Handler{plans: plans, gen: gen, snapshots: snapshots, shares: shares, log: log}
}

// actor extracts the acting user's id. Authentication happens upstream;
// this layer only requires that an identity was forwarded.
func actor(r *http.Request) string {
	return r.Header.Get("X-Actor-ID")
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createPlanRequest struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	Language        string `json:"language"`
	RequiredAnswers int    `json:"required_answers"`
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	p, err := h.plans.Create(r.Context(), actor(r), req.Title, domain.PlanCategory(req.Category), req.Language, req.RequiredAnswers)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.plans.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.plans.Delete(r.Context(), actor(r), chi.URLParam(r, "planID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Required *bool  `json:"required"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	required := true
	if req.Required != nil {
		required = *req.Required
	}
	p, err := h.plans.SubmitAnswer(r.Context(), actor(r), chi.URLParam(r, "planID"), chi.URLParam(r, "questionID"), req.Question, req.Answer, required)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type transitionRequest struct {
	To string `json:"to"`
}

func (h *Handler) TransitionPlan(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	p, err := h.plans.Transition(r.Context(), actor(r), chi.URLParam(r, "planID"), domain.PlanStatus(req.To))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type generateRequest struct {
	Language string `json:"language"`
}

func (h *Handler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	p, err := h.gen.GenerateAll(r.Context(), actor(r), chi.URLParam(r, "planID"), req.Language)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) RegenerateSection(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	p, err := h.gen.RegenerateSection(r.Context(), actor(r), chi.URLParam(r, "planID"), domain.Section(chi.URLParam(r, "section")), req.Language)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.gen.GetStatus(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) AvailableSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.gen.AvailableSections(domain.PlanCategory(chi.URLParam(r, "category")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

type createSnapshotRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req createSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	snap, err := h.snapshots.CreateSnapshot(r.Context(), actor(r), chi.URLParam(r, "planID"), req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.snapshots.ListSnapshots(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		respondError(w, contract.InvalidArgumentf("snapshot version must be an integer"))
		return
	}
	snap, err := h.snapshots.GetSnapshot(r.Context(), chi.URLParam(r, "planID"), version)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

type createShareRequest struct {
	Permission   string     `json:"permission"`
	TargetUserID *string    `json:"target_user_id"`
	IsPublic     bool       `json:"is_public"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

func (h *Handler) CreateShare(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	g, err := h.shares.CreateShare(r.Context(), actor(r), chi.URLParam(r, "planID"), domain.SharePermission(req.Permission), req.TargetUserID, req.IsPublic, req.ExpiresAt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, g)
}

func (h *Handler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	g, err := h.shares.Revoke(r.Context(), actor(r), chi.URLParam(r, "shareID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *Handler) ReactivateShare(w http.ResponseWriter, r *http.Request) {
	g, err := h.shares.Reactivate(r.Context(), actor(r), chi.URLParam(r, "shareID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

type updatePermissionRequest struct {
	Permission string `json:"permission"`
}

func (h *Handler) UpdateSharePermission(w http.ResponseWriter, r *http.Request) {
	var req updatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, contract.InvalidArgumentf("invalid request body"))
		return
	}
	g, err := h.shares.UpdatePermission(r.Context(), actor(r), chi.URLParam(r, "shareID"), domain.SharePermission(req.Permission))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *Handler) RecordShareAccess(w http.ResponseWriter, r *http.Request) {
	g, err := h.shares.RecordAccess(r.Context(), chi.URLParam(r, "shareID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (h *Handler) ResolvePublicToken(w http.ResponseWriter, r *http.Request) {
	g, err := h.shares.ResolvePublicToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	kind := contract.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case contract.KindNotFound:
		status = http.StatusNotFound
	case contract.KindInvalidArgument:
		status = http.StatusBadRequest
	case contract.KindPreconditionFailed, contract.KindConcurrencyConflict:
		status = http.StatusConflict
	case contract.KindGenerationFailed:
		status = http.StatusBadGateway
	}
	respondJSON(w, status, errorResponse{Kind: string(kind), Message: err.Error()})
}
