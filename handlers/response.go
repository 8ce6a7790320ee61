package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/middleware"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/services"
	"github.com/afeibuhuifei/project-flow/utils"
)

const maxJSONBody = 1 << 20

var errBadID = errors.New("bad id")

// base carries what every handler needs to answer with the envelope.
type base struct {
	debug bool
}

func (b base) success(w http.ResponseWriter, status int, message string, data interface{}) {
	utils.WriteSuccess(w, status, message, data)
}

// fail maps a service error onto the envelope. Anything outside the domain
// taxonomy is a 500 with a generic message.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		utils.WriteJSON(w, http.StatusBadRequest, models.Envelope{
			Success: false,
			Message: services.PublicMessage(err),
			Errors:  verrs,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.WriteFailure(w, http.StatusNotFound, services.PublicMessage(err))
	case errors.Is(err, services.ErrUnauthorized):
		utils.WriteFailure(w, http.StatusUnauthorized, services.PublicMessage(err))
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
		body := models.Envelope{Success: false, Message: fallback}
		if b.debug {
			body.Error = err.Error()
		}
		utils.WriteJSON(w, http.StatusInternalServerError, body)
	}
}

func (b base) badRequest(w http.ResponseWriter, message string) {
	utils.WriteFailure(w, http.StatusBadRequest, message)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

// currentUserID is only called behind JWTAuthMiddleware.
func currentUserID(r *http.Request) uint {
	if u := middleware.UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return 0
}
