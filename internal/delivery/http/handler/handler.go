package handler

import (
	"net/http"

	"hospital-appointment/internal/delivery/http/middleware"
	"hospital-appointment/internal/domain/entity"
	"hospital-appointment/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// actorFrom returns the authenticated caller or writes 401.
func actorFrom(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return actor, ok
}

// uuidVar parses a uuid path variable or writes 400.
func uuidVar(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
