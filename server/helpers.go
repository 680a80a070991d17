package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Daskott/rolodex/server/forms"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/utils"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

type ResponsePayload struct {
	Errors      []string          `json:"errors"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Success     bool              `json:"success"`
	Data        interface{}       `json:"data,omitempty"`
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func (s *Server) writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		s.logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		s.logg.Info(payLoad.Errors)
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

// writeRedirect reports success & points the client at the view to show next.
func (s *Server) writeRedirect(rw http.ResponseWriter, location string, data interface{}) {
	rw.Header().Set("Location", location)
	s.writeResponse(rw, ResponsePayload{Success: true, Data: data}, http.StatusSeeOther)
}

// writeError maps err to a status code. For errors the user can recover from,
// data (e.g. the rejected submission or a fresh form) is sent back with it.
func (s *Server) writeError(rw http.ResponseWriter, err error, data interface{}) {
	payLoad := ResponsePayload{Errors: []string{err.Error()}}
	status := statusForError(err)

	var validationErrs forms.ValidationErrors
	if errors.As(err, &validationErrs) {
		payLoad.FieldErrors = validationErrs.Messages()
	}

	if status != http.StatusInternalServerError && status != http.StatusNotFound {
		payLoad.Data = data
	}

	s.writeResponse(rw, payLoad, status)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStaleState), errors.Is(err, models.ErrIndexOutOfRange):
		return http.StatusConflict
	case errors.Is(err, models.ErrDuplicateName):
		return http.StatusUnprocessableEntity
	case errors.Is(err, forms.ErrInvalidLabel), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}

	var validationErrs forms.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrapf(errBadRequest, "invalid json body: %v", err)
	}
	return nil
}

func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrapf(errBadRequest, "invalid form body: %v", err)
	}
	return nil
}

// pathID reads a numeric path variable. Routes only match digits, so this only
// fails on ids that overflow.
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "invalid %v", name)
	}
	return uint(id), nil
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(logg *zap.SugaredLogger, server *http.Server) {
	logg.Infof("Rolodex server is listening on port:%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(logg *zap.SugaredLogger, server *http.Server) {
	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Rolodex server shutdown failed:%+s", err)
	}

	logg.Infof("Rolodex server stopped properly")
}

// DataDirectory returns the directory that holds the db & local avatars,
// creating it if needed. Unless configured, it's 'rolodex' in the home
// directory, or 'dev' in the current directory in dev mode.
func DataDirectory(configured string, devMode bool) (string, error) {
	dataDir := configured

	if dataDir == "" {
		folderName := "rolodex"
		rootDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		if devMode {
			folderName = "dev"
			rootDir, err = os.Getwd()
			if err != nil {
				return "", err
			}
		}

		dataDir = filepath.Join(rootDir, folderName)
	}

	if err := utils.CreateDirIfNotExist(dataDir); err != nil {
		return "", err
	}

	return dataDir, nil
}
