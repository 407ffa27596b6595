package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// getUserIDFromContext returns the user id placed in the context by the
// authentication middleware.
func getUserIDFromContext(r *http.Request) (string, bool) {
	return shared.UserIDFromContext(r.Context())
}

// requireUserID writes a 401 and returns false when no user id is present.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID missing from authenticated request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return "", false
	}
	return userID, true
}

// getPathParam returns a non-empty chi path parameter. Ids are passed
// through unparsed; the store treats malformed ids as not found.
func getPathParam(r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	return v, v != ""
}

// parsePositiveInt parses a query parameter, returning 0 when it is
// absent, non-numeric or below 1 so that service defaults apply.
func parsePositiveInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		logger.FromContext(r.Context()).Debug("ignoring invalid query parameter",
			slog.String("param", name), slog.String("value", raw))
		return 0
	}
	return v
}

// decodeAndValidate decodes the JSON body into v and validates it. It writes
// the error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err)
		case MapErrorToStatusCode(err) == http.StatusBadRequest:
			HandleAPIError(w, r, err, "")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		}
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		HandleValidationError(w, r, err)
		return false
	}
	return true
}
