package api

import (
	"net/http"

	"github.com/apridachin/girya-storekeeper/internal/api/shared"
)

// ownerFromRequest returns the credential placed in the context by the auth
// middleware. It writes a 401 and returns false when there is none.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := shared.GetOwner(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization required")
		return "", false
	}
	return owner, true
}

// decodeAndValidate decodes the JSON body into v and validates it. It writes
// a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// respondWithServiceError maps err to a status and safe message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
