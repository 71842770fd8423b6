package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/coverme/internal/db"
	"github.com/jonathan/coverme/internal/generation"
	"github.com/jonathan/coverme/internal/ingestion"
	"github.com/jonathan/coverme/internal/profile"
	"github.com/jonathan/coverme/internal/types"
)

// UpdateDraftRequest is the body of PUT /cover-letters/{id}. Omitted fields
// keep their stored values.
type UpdateDraftRequest struct {
	JobTitle *string `json:"job_title" validate:"omitempty,max=300"`
	Company  *string `json:"company" validate:"omitempty,max=300"`
	Content  *string `json:"content" validate:"omitempty,max=50000"`
}

// handleParse extracts a job description and stores it as a new draft.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req types.ParseJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	outcome, err := s.parser.Parse(r.Context(), ingestion.PrepareJobText(req.RawJobText))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result := outcome.Result
	draft := &db.CoverLetterDraft{
		UserID:     userID(r),
		JobTitle:   result.TitleOrEmpty(),
		Company:    result.CompanyOrEmpty(),
		RawJobText: req.RawJobText,
		Parsed:     &result,
		Language:   result.Language,
		Confidence: result.Confidence,
	}
	if err := s.store.CreateDraft(r.Context(), draft); err != nil {
		// the parse itself succeeded; the client can still generate
		s.logger.WithError(err).Warn("failed to store draft after parse")
	} else {
		w.Header().Set(DraftIDHeader, draft.ID.String())
	}

	writeJSON(w, http.StatusOK, outcome.Response())
}

// handleGenerate writes a cover letter. Without a user_profile in the body
// the stored profile is used.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateLetterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	uid := userID(r)

	profileJSON := req.UserProfile
	if isEmptyJSON(profileJSON) {
		p, err := profile.Load(r.Context(), s.store, uid)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if profileJSON, err = p.JSON(); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	resp, err := s.generator.Generate(r.Context(), req.Parsed, req.Config, profileJSON)
	if err != nil {
		var genErr *generation.GenerationError
		if errors.As(err, &genErr) {
			s.logger.WithError(err).WithField("user_id", uid).Error("cover letter generation failed")
			details := genErr.Details
			if genErr.Cause != nil {
				details += ": " + genErr.Cause.Error()
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   generation.ErrGenerationFailed.Error(),
				"details": details,
			})
			return
		}
		s.respondError(w, r, err)
		return
	}

	if id, ok := s.saveGenerated(r, uid, req, resp); ok {
		w.Header().Set(DraftIDHeader, id.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// saveGenerated updates the draft named by the request header, or creates
// one when there is none. Storage failures are logged only.
func (s *Server) saveGenerated(r *http.Request, uid uuid.UUID, req types.GenerateLetterRequest, resp *types.GenerateLetterResponse) (uuid.UUID, bool) {
	ctx := r.Context()
	log := s.logger.WithField("user_id", uid)

	var draft *db.CoverLetterDraft
	if raw := r.Header.Get(DraftIDHeader); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			existing, err := s.store.GetDraft(ctx, uid, id)
			if err != nil {
				log.WithError(err).Warn("failed to load draft")
			}
			draft = existing
		}
	}

	parsed := req.Parsed
	isNew := draft == nil
	if isNew {
		draft = &db.CoverLetterDraft{UserID: uid}
	}
	draft.JobTitle = parsed.TitleOrEmpty()
	draft.Company = parsed.CompanyOrEmpty()
	draft.Parsed = &parsed
	draft.Config = generation.ApplyDefaults(req.Config)
	draft.Content = resp.Variants[0]
	draft.Model = resp.Metadata.Model
	draft.Language = resp.Metadata.Language
	draft.Confidence = resp.Metadata.Confidence

	var err error
	if isNew {
		err = s.store.CreateDraft(ctx, draft)
	} else {
		err = s.store.UpdateDraft(ctx, draft)
	}
	if err != nil {
		log.WithError(err).WithField("new", isNew).Warn("failed to store generated letter")
		return uuid.Nil, false
	}
	return draft.ID, true
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	limit := db.DefaultDraftListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			s.respondError(w, r, &ErrValidation{Field: "limit", Message: "must be between 1 and 200"})
			return
		}
		limit = n
	}

	drafts, err := s.store.ListDrafts(r.Context(), userID(r), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	draft, err := s.store.GetDraft(r.Context(), userID(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if draft == nil {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req UpdateDraftRequest
	if err := s.bind(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	uid := userID(r)
	draft, err := s.store.GetDraft(r.Context(), uid, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if draft == nil {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}

	if req.JobTitle != nil {
		draft.JobTitle = *req.JobTitle
	}
	if req.Company != nil {
		draft.Company = *req.Company
	}
	if req.Content != nil {
		draft.Content = *req.Content
	}
	if err := s.store.UpdateDraft(r.Context(), draft); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.store.DeleteDraft(r.Context(), userID(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetchJob(w http.ResponseWriter, r *http.Request) {
	var req types.FetchJobRequest
	if err := s.bind(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if s.fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, "job fetching is not configured")
		return
	}

	posting, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"url": req.URL}).Warn("job fetch failed")
		if status := HTTPStatus(err); status < 500 || status == http.StatusBadGateway {
			writeError(w, status, err.Error())
			return
		}
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FetchJobResponse{
		URL:        posting.URL,
		Platform:   string(posting.Platform),
		RawJobText: posting.Text,
	})
}
