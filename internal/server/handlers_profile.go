package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/coverme/internal/db"
	"github.com/jonathan/coverme/internal/profile"
	"github.com/jonathan/coverme/internal/types"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := profile.Load(r.Context(), s.store, userID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	var req types.UpdatePersonalInfoRequest
	if err := s.bind(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	user, err := s.userService.UpdatePersonalInfo(r.Context(), userID(r), &req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// bind decodes and validates a request body
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validateStruct(s.validate, dst)
}

// section describes one editable list in a profile
type section[T any] struct {
	path   string
	list   func(ctx context.Context, userID uuid.UUID) ([]T, error)
	create func(ctx context.Context, item *T) error
	update func(ctx context.Context, item *T) error
	delete func(ctx context.Context, userID, id uuid.UUID) error
	// own stamps the owner and id onto an item decoded from a request
	own func(item *T, userID, id uuid.UUID)
}

func (s *Server) profileSectionRoutes(mux *http.ServeMux) {
	st := s.store
	registerSection(s, mux, section[db.Experience]{
		path: "experiences", list: st.ListExperiences, create: st.CreateExperience,
		update: st.UpdateExperience, delete: st.DeleteExperience,
		own: func(e *db.Experience, u, id uuid.UUID) { e.UserID, e.ID = u, id },
	})
	registerSection(s, mux, section[db.Education]{
		path: "education", list: st.ListEducation, create: st.CreateEducation,
		update: st.UpdateEducation, delete: st.DeleteEducation,
		own: func(e *db.Education, u, id uuid.UUID) { e.UserID, e.ID = u, id },
	})
	registerSection(s, mux, section[db.Skill]{
		path: "skills", list: st.ListSkills, create: st.CreateSkill,
		update: st.UpdateSkill, delete: st.DeleteSkill,
		own: func(sk *db.Skill, u, id uuid.UUID) { sk.UserID, sk.ID = u, id },
	})
	registerSection(s, mux, section[db.Certification]{
		path: "certifications", list: st.ListCertifications, create: st.CreateCertification,
		update: st.UpdateCertification, delete: st.DeleteCertification,
		own: func(c *db.Certification, u, id uuid.UUID) { c.UserID, c.ID = u, id },
	})
	registerSection(s, mux, section[db.Link]{
		path: "links", list: st.ListLinks, create: st.CreateLink,
		update: st.UpdateLink, delete: st.DeleteLink,
		own: func(l *db.Link, u, id uuid.UUID) { l.UserID, l.ID = u, id },
	})
}

func registerSection[T any](s *Server, mux *http.ServeMux, sec section[T]) {
	base := "/profile/" + sec.path

	mux.Handle("GET "+base, s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		items, err := sec.list(r.Context(), userID(r))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}))

	mux.Handle("POST "+base, s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := s.bind(w, r, &item); err != nil {
			s.respondError(w, r, err)
			return
		}
		sec.own(&item, userID(r), uuid.Nil)
		if err := sec.create(r.Context(), &item); err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}))

	mux.Handle("PUT "+base+"/{id}", s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		var item T
		if err := s.bind(w, r, &item); err != nil {
			s.respondError(w, r, err)
			return
		}
		sec.own(&item, userID(r), id)
		if err := sec.update(r.Context(), &item); err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}))

	mux.Handle("DELETE "+base+"/{id}", s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if err := sec.delete(r.Context(), userID(r), id); err != nil {
			s.respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}
