package server

import (
	"net/http"

	"github.com/Daskott/rolodex/server/forms"
)

func (s *Server) listGroups(rw http.ResponseWriter, r *http.Request) {
	groups, err := s.store.WithContext(r.Context()).ListGroups()
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: groups}, http.StatusOK)
}

func (s *Server) createGroup(rw http.ResponseWriter, r *http.Request) {
	sub, err := decodeGroupSubmission(r)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	group, err := forms.CreateGroup(s.store.WithContext(r.Context()), s.validator, sub)
	if err != nil {
		s.writeError(rw, err, sub)
		return
	}

	s.writeRedirect(rw, "/groups", group)
}

func (s *Server) editGroupForm(rw http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "gid")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	form, err := forms.BuildGroupForm(s.store.WithContext(r.Context()), groupID)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: form}, http.StatusOK)
}

func (s *Server) updateGroup(rw http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "gid")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	sub, err := decodeGroupSubmission(r)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	group, err := forms.SaveGroup(s.store.WithContext(r.Context()), s.validator, groupID, sub)
	if err != nil {
		s.writeError(rw, err, sub)
		return
	}

	s.writeRedirect(rw, "/groups", group)
}

func (s *Server) deleteGroup(rw http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "gid")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	if err = s.store.WithContext(r.Context()).DeleteGroup(groupID); err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeRedirect(rw, "/groups", nil)
}

func decodeGroupSubmission(r *http.Request) (*forms.GroupSubmission, error) {
	if isJSONRequest(r) {
		sub := &forms.GroupSubmission{}
		return sub, decodeJSON(r, sub)
	}

	if err := parseForm(r); err != nil {
		return nil, err
	}

	return forms.ParseGroupValues(r.PostForm), nil
}
