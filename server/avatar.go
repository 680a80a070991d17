package server

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const avatarField = "avatar"

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// saveAvatarUpload stores the image uploaded as 'avatar', if any, & returns
// the name it was stored under.
func (s *Server) saveAvatarUpload(rw http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(rw, r.Body, s.maxUploadSize)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return "", parseForm(r)
	}

	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		return "", errors.Wrapf(errBadRequest, "invalid multipart body: %v", err)
	}

	file, _, err := r.FormFile(avatarField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(errBadRequest, "invalid avatar: %v", err)
	}
	defer file.Close()

	// Sniff the content instead of trusting the client's content type
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]

	ext, ok := avatarExtensions[http.DetectContentType(head)]
	if !ok {
		return "", errors.Wrap(errBadRequest, "avatar must be a png, jpeg, gif or webp image")
	}

	name := path.Join("avatars", uuid.NewString()+ext)
	err = s.avatars.Upload(r.Context(), name, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		return "", err
	}

	return name, nil
}

func (s *Server) contactAvatar(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	contact, err := s.store.WithContext(r.Context()).FindContact(contactID)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	if contact.Avatar == "" {
		s.writeResponse(rw, ResponsePayload{Errors: []string{"contact has no avatar"}}, http.StatusNotFound)
		return
	}

	rc, err := s.avatars.Open(r.Context(), contact.Avatar)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(contact.Avatar))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rw.Header().Set("Content-Type", contentType)
	rw.WriteHeader(http.StatusOK)
	if _, err = io.Copy(rw, rc); err != nil {
		s.logg.Errorf("contactAvatar: %v", err)
	}
}

// updateAvatar replaces a contact's avatar with the uploaded image. The
// previous image is deleted once the contact points at the new one.
func (s *Server) updateAvatar(rw http.ResponseWriter, r *http.Request) {
	contactID, err := pathID(r, "id")
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	store := s.store.WithContext(r.Context())

	contact, err := store.FindContact(contactID)
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	avatar, err := s.saveAvatarUpload(rw, r)
	if err == nil && avatar == "" {
		err = errors.Wrap(errBadRequest, "missing avatar")
	}
	if err != nil {
		s.writeError(rw, err, nil)
		return
	}

	if err = store.UpdateContactAvatar(contactID, avatar); err != nil {
		s.deleteAvatar(r, avatar)
		s.writeError(rw, err, nil)
		return
	}

	s.deleteAvatar(r, contact.Avatar)
	contact.Avatar = avatar
	s.writeRedirect(rw, fmt.Sprintf("/contacts/%v", contactID), contact)
}

// deleteAvatar removes a stored avatar. Failures are only logged since the
// contact it belonged to is already gone.
func (s *Server) deleteAvatar(r *http.Request, name string) {
	if name == "" {
		return
	}

	if err := s.avatars.Delete(r.Context(), name); err != nil {
		s.logg.Warnf("unable to delete avatar %q: %v", name, err)
	}
}
