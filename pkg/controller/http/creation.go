package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/domain/types"
	"github.com/m-mizutani/atelier/pkg/service/gateway"
	"github.com/m-mizutani/atelier/pkg/usecase"
	"github.com/m-mizutani/atelier/pkg/utils/errutil"
	"github.com/m-mizutani/atelier/pkg/utils/logging"
	"github.com/m-mizutani/atelier/pkg/utils/safe"
)

type createRequest struct {
	Prompt      string `json:"prompt"`
	SessionID   string `json:"session_id,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
}

type creationResponse struct {
	CreationID        string         `json:"creation_id"`
	SessionID         string         `json:"session_id"`
	Prompt            string         `json:"prompt"`
	EnhancedPrompt    string         `json:"enhanced_prompt"`
	ReferenceID       string         `json:"reference_id,omitempty"`
	ReferenceAnalysis string         `json:"reference_analysis,omitempty"`
	ImagePath         string         `json:"image_path"`
	ModelPath         string         `json:"model_path"`
	Metadata          map[string]any `json:"metadata"`
	CreatedAt         time.Time      `json:"created_at"`
}

type createResponse struct {
	Message   string             `json:"message"`
	ImagePath string             `json:"image_path,omitempty"`
	ModelPath string             `json:"model_path,omitempty"`
	Creation  *creationResponse  `json:"creation,omitempty"`
	History   []*creationResponse `json:"history,omitempty"`
}

type similarResponse struct {
	Creations []*creationResponse `json:"creations"`
}

func toCreationResponse(c *model.Creation) *creationResponse {
	resp := &creationResponse{
		CreationID:     c.ID.String(),
		SessionID:      c.SessionID.String(),
		Prompt:         c.OriginalPrompt,
		EnhancedPrompt: c.EnhancedPrompt,
		ReferenceID:    c.ReferenceID.String(),
		ImagePath:      c.ImagePath,
		ModelPath:      c.ModelPath,
		Metadata:       c.Metadata,
		CreatedAt:      c.CreatedAt,
	}
	if c.ReferenceAnalysis != nil {
		resp.ReferenceAnalysis = c.ReferenceAnalysis.Analysis
	}
	return resp
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	creation, err := s.uc.Creation.Create(ctx, usecase.CreateInput{
		Prompt:      req.Prompt,
		SessionID:   types.SessionID(req.SessionID),
		ReferenceID: types.CreationID(req.ReferenceID),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyPrompt):
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		case errors.Is(err, gateway.ErrGenerationFailed):
			errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		default:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		}
		return
	}

	resp := createResponse{
		Message:   "Creation successful!",
		ImagePath: creation.ImagePath,
		ModelPath: creation.ModelPath,
		Creation:  toCreationResponse(creation),
	}

	// History is informational; a listing failure does not undo the
	// creation that already succeeded.
	history, err := s.uc.Creation.ListHistory(ctx, creation.SessionID)
	if err != nil {
		logging.From(ctx).Warn("failed to list session history", "error", err.Error())
	} else {
		resp.History = make([]*creationResponse, len(history))
		for i, c := range history {
			resp.History[i] = toCreationResponse(c)
		}
	}

	writeJSON(ctx, w, http.StatusCreated, resp)
}

func (s *Server) handleGetCreation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := types.CreationID(chi.URLParam(r, "creationID"))
	if err := id.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	creation, err := s.uc.Creation.GetCreation(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrCreationNotFound) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toCreationResponse(creation))
}

func (s *Server) handleFindSimilar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prompt := r.URL.Query().Get("prompt")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid limit"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	creations, err := s.uc.Creation.FindSimilar(ctx, prompt, limit)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	resp := similarResponse{
		Creations: make([]*creationResponse, len(creations)),
	}
	for i, c := range creations {
		resp.Creations[i] = toCreationResponse(c)
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "*")
	data, err := s.artifactSvc.Get(ctx, key)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
		return
	}

	switch {
	case strings.HasSuffix(key, ".png"):
		w.Header().Set("Content-Type", "image/png")
	case strings.HasSuffix(key, ".glb"):
		w.Header().Set("Content-Type", "model/gltf-binary")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, data)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
