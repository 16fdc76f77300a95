// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/flow"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeFlowError maps flow sentinels to statuses in one place.
func writeFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, flow.ErrNoFlow):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, flow.ErrRouteIncomplete),
		errors.Is(err, flow.ErrNoActiveTarget):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, flow.ErrInvalidStage),
		errors.Is(err, flow.ErrAlreadyConfirmed):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// writeRemoteError surfaces a rejection from the remote API with its inline
// message; transport failures stay opaque.
func writeRemoteError(c *gin.Context, err error) {
	var remote *api.RemoteError
	if errors.As(err, &remote) {
		writeJSON(c, http.StatusUnprocessableEntity, errorResponse{
			Error: remote.Message,
			Code:  remote.Code,
		})
		return
	}
	writeError(c, http.StatusBadGateway, "upstream unavailable")
}
