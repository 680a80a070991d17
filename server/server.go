package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daskott/rolodex/server/forms"
	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Server holds everything a request handler needs. Nothing is shared through
// package state.
type Server struct {
	store         *models.Store
	validator     *forms.Validator
	avatars       gstorage.ObjectStore
	logg          *zap.SugaredLogger
	maxUploadSize int64
}

func NewServer(store *models.Store, avatars gstorage.ObjectStore, logg *zap.SugaredLogger, maxUploadSizeMB int64) (*Server, error) {
	validator, err := forms.NewValidator()
	if err != nil {
		return nil, err
	}

	return &Server{
		store:         store,
		validator:     validator,
		avatars:       avatars,
		logg:          logg,
		maxUploadSize: maxUploadSizeMB << 20,
	}, nil
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware, metricsMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.NewRoute().Subrouter()
	api.Use(jsonContentTypeMiddleware)

	api.HandleFunc("/contacts", s.listContacts).Methods("GET")
	api.HandleFunc("/contacts", s.createContact).Methods("POST")
	api.HandleFunc("/contacts/{id:[0-9]+}", s.editContactForm).Methods("GET")
	api.HandleFunc("/contacts/{id:[0-9]+}", s.updateContact).Methods("POST")
	api.HandleFunc("/contacts/{id:[0-9]+}", s.deleteContact).Methods("DELETE")
	api.HandleFunc("/contacts/{id:[0-9]+}/delete", s.deleteContact).Methods("POST")
	api.HandleFunc("/contacts/{id:[0-9]+}/avatar", s.contactAvatar).Methods("GET")
	api.HandleFunc("/contacts/{id:[0-9]+}/avatar", s.updateAvatar).Methods("POST")

	api.HandleFunc("/contacts/{id:[0-9]+}/phones", s.addPhone).Methods("POST")
	api.HandleFunc("/contacts/{id:[0-9]+}/phones/{pid:[0-9]+}", s.deletePhone).Methods("DELETE")
	api.HandleFunc("/contacts/{id:[0-9]+}/phones/label/{label}", s.deletePhoneByLabel).Methods("DELETE")
	api.HandleFunc("/contacts/{id:[0-9]+}/emails", s.addEmail).Methods("POST")
	api.HandleFunc("/contacts/{id:[0-9]+}/emails/{eid:[0-9]+}", s.deleteEmail).Methods("DELETE")
	api.HandleFunc("/contacts/{id:[0-9]+}/emails/label/{label}", s.deleteEmailByLabel).Methods("DELETE")

	api.HandleFunc("/groups", s.listGroups).Methods("GET")
	api.HandleFunc("/groups", s.createGroup).Methods("POST")
	api.HandleFunc("/groups/{gid:[0-9]+}", s.editGroupForm).Methods("GET")
	api.HandleFunc("/groups/{gid:[0-9]+}", s.updateGroup).Methods("POST")
	api.HandleFunc("/groups/{gid:[0-9]+}", s.deleteGroup).Methods("DELETE")
	api.HandleFunc("/groups/{gid:[0-9]+}/delete", s.deleteGroup).Methods("POST")
	api.HandleFunc("/groups/{gid:[0-9]+}/contacts", s.listGroupContacts).Methods("GET")

	return router
}

// Start opens the db, serves the API & blocks until the process is
// interrupted.
func Start(config *viper.Viper, devMode bool) {
	logg := logger.NewLogger(devMode)
	defer logg.Sync()

	serverConfig, err := shared.LoadServerConfig(config)
	fatalOnError(logg, err)

	dataDir, err := DataDirectory(serverConfig.Rolodex.DataDir, devMode)
	fatalOnError(logg, err)

	db, err := models.OpenDB(serverConfig.Sqlite.PassPhrase, dataDir, devMode)
	fatalOnError(logg, err)
	fatalOnError(logg, models.AutoMigrate(db))

	avatars, err := newAvatarStore(serverConfig, dataDir)
	fatalOnError(logg, err)

	srv, err := NewServer(models.NewStore(db), avatars, logg, serverConfig.Rolodex.Avatars.MaxUploadSizeMB)
	fatalOnError(logg, err)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%v", serverConfig.Rolodex.Listener.Port),
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go serve(logg, httpServer)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cleanup(logg, httpServer)
}

func newAvatarStore(config *shared.ServerConfig, dataDir string) (gstorage.ObjectStore, error) {
	storageConfig := config.Google.Storage
	if storageConfig.EnableAvatarStorage {
		return gstorage.NewGStorage(config.Google.ApplicationCredentials, storageConfig.Bucket, storageConfig.Prefix)
	}

	// Object names already start with "avatars/"
	return gstorage.NewLocalStorage(dataDir)
}

func fatalOnError(logg *zap.SugaredLogger, err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
