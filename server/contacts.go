package server

import (
	"fmt"
	"net/http"

	"github.com/Daskott/rolodex/server/forms"
	"github.com/Daskott/rolodex/server/models"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

func (s *Server) listContacts(rw http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	contacts, err := s.store.WithContext(r.Context()).ListContacts(search)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: contacts}, http.StatusOK)
}

func (s *Server) listGroupContacts(rw http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "gid")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	contacts, err := s.store.WithContext(r.Context()).ListContactsInGroup(groupID)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: contacts}, http.StatusOK)
}

// createContact accepts either a json body or a multipart form with a 'name'
// & an optional 'avatar' image.
func (s *Server) createContact(rw http.ResponseWriter, r *http.Request) {
	contact := &models.Contact{}

	if isJSONRequest(r) {
		if err := decodeJSON(r, contact); err != nil {
			s.writeError(rw, err, nil)
			return
		}
		// Avatars can only be set through an upload
		contact.Avatar = ""
	} else {
		avatar, err := s.saveAvatarUpload(rw, r)
		if err != nil {
			s.writeError(rw, err, nil)
			return
		}
		contact.Name = r.FormValue("name")
		contact.Avatar = avatar
	}

	err := forms.CreateContact(s.store.WithContext(r.Context()), s.validator, contact)
	if err != nil {
		s.deleteAvatar(r, contact.Avatar)
		s.writeError(rw, err, contact)
		return
	}

	s.writeRedirect(rw, fmt.Sprintf("/contacts/%v", contact.ID), contact)
}

func (s *Server) editContactForm(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	form, err := forms.BuildContactForm(s.store.WithContext(r.Context()), contactID)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: form}, http.StatusOK)
}

// updateContact applies an edit-contact submission, sent either as json or as
// the url-encoded keys of the contact's form.
func (s *Server) updateContact(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	sub := &forms.Submission{}
	if isJSONRequest(r) {
		err = decodeJSON(r, sub)
	} else if err = parseForm(r); err == nil {
		sub, err = forms.ParseFieldSet(r.PostForm)
		if err != nil {
			err = errors.Wrap(errBadRequest, err.Error())
		}
	}
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	store := s.store.WithContext(r.Context())

	result, err := forms.SaveContact(store, s.validator, contactID, sub)
	if err != nil {
		s.writeContactError(rw, store, contactID, err, sub)
		return
	}

	s.writeRedirect(rw, "/contacts", result)
}

func (s *Server) deleteContact(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	contact, err := s.store.WithContext(r.Context()).DeleteContact(contactID)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.deleteAvatar(r, contact.Avatar)
	s.writeRedirect(rw, "/contacts", nil)
}

// ---------------------------------------------------------------------------------//
// Phones & emails
// --------------------------------------------------------------------------------//

func (s *Server) addPhone(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	phone := &models.Phone{}
	if isJSONRequest(r) {
		err = decodeJSON(r, phone)
	} else if err = parseForm(r); err == nil {
		phone.Number = r.PostForm.Get("number")
	}
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	err = forms.AddPhone(s.store.WithContext(r.Context()), s.validator, contactID, phone)
	if err != nil {
		s.writeError(rw, err, phone)
		return
	}

	s.writeRedirect(rw, fmt.Sprintf("/contacts/%v", contactID), phone)
}

func (s *Server) addEmail(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	email := &models.Email{}
	if isJSONRequest(r) {
		err = decodeJSON(r, email)
	} else if err = parseForm(r); err == nil {
		email.Address = r.PostForm.Get("address")
	}
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	err = forms.AddEmail(s.store.WithContext(r.Context()), s.validator, contactID, email)
	if err != nil {
		s.writeError(rw, err, email)
		return
	}

	s.writeRedirect(rw, fmt.Sprintf("/contacts/%v", contactID), email)
}

func (s *Server) deletePhone(rw http.ResponseWriter, r *http.Request) {
	s.deleteChild(rw, r, "pid", func(store *models.Store, contactID, id uint) error {
		return store.DeletePhone(contactID, id)
	})
}

func (s *Server) deleteEmail(rw http.ResponseWriter, r *http.Request) {
	s.deleteChild(rw, r, "eid", func(store *models.Store, contactID, id uint) error {
		return store.DeleteEmail(contactID, id)
	})
}

// deletePhoneByLabel deletes e.g. "Phone 2", the second phone as listed on the
// contact's form.
func (s *Server) deletePhoneByLabel(rw http.ResponseWriter, r *http.Request) {
	s.deleteChildByLabel(rw, r, forms.PhoneLabelPrefix, func(store *models.Store, contactID uint, pos int) error {
		_, err := store.DeletePhoneAt(contactID, pos)
		return err
	})
}

func (s *Server) deleteEmailByLabel(rw http.ResponseWriter, r *http.Request) {
	s.deleteChildByLabel(rw, r, forms.EmailLabelPrefix, func(store *models.Store, contactID uint, pos int) error {
		_, err := store.DeleteEmailAt(contactID, pos)
		return err
	})
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (s *Server) deleteChild(rw http.ResponseWriter, r *http.Request, idVar string, del func(*models.Store, uint, uint) error) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	id, err := pathID(r, idVar)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	if err = del(s.store.WithContext(r.Context()), contactID, id); err != nil {
		s.writeError(rw, err, nil)
		return
	}

	s.writeRedirect(rw, fmt.Sprintf("/contacts/%v", contactID), nil)
}

func (s *Server) deleteChildByLabel(rw http.ResponseWriter, r *http.Request, prefix string, del func(*models.Store, uint, int) error) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	pos, err := forms.ParseLabel(mux.Vars(r)["label"], prefix)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	store := s.store.WithContext(r.Context())
	if err = del(store, contactID, pos); err != nil {
		s.writeContactError(rw, store, contactID, err, nil)
		return
	}

	s.writeRedirect(rw, fmt.Sprintf("/contacts/%v", contactID), nil)
}

// writeContactError re-renders the contact's form along with errors that mean
// the client acted on an outdated form, so the user can retry.
func (s *Server) writeContactError(rw http.ResponseWriter, store *models.Store, contactID uint, err error, sub *forms.Submission) {
	if statusForError(err) != http.StatusConflict {
		var data interface{}
		if sub != nil {
			data = sub
		}
		s.writeError(rw, err, data)
		return
	}

	form, formErr := forms.BuildContactForm(store, contactID)
	if formErr != nil {
		s.writeError(rw, formErr, nil)
		return
	}

	s.writeError(rw, err, form)
}
