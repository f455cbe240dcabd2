package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kajiwara22/sf6chapter/internal/search"
	"github.com/kajiwara22/sf6chapter/internal/storage"
)

// ApplicationHandler holds shared dependencies for all handlers.
type ApplicationHandler struct {
	Log         *logrus.Logger
	Search      *search.Service
	Storage     *storage.Client
	Validate    *validator.Validate
	Environment string

	MatchesKey           string
	VideosKey            string
	PresignExpirySeconds int
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies. Storage may be nil when the service only proxies a
// remote dataset API; the data endpoints then respond 503.
func NewApplicationHandler(log *logrus.Logger, svc *search.Service, store *storage.Client) *ApplicationHandler {
	return &ApplicationHandler{
		Log:      log,
		Search:   svc,
		Storage:  store,
		Validate: validator.New(),
	}
}
