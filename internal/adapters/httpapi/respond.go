package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flowgraph/flowbuilder/internal/app/dto"
	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string, roots []string) {
	respondJSON(w, status, dto.ErrorResponse{Error: dto.ErrorBody{
		Code:    code,
		Message: message,
		Roots:   roots,
	}})
}

// errorStatus maps a domain error to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, dto.ErrSessionNotFound):
		return http.StatusNotFound, "flow_not_found"
	case errors.Is(err, graph.ErrNodeNotFound),
		errors.Is(err, graph.ErrSourceNodeNotFound),
		errors.Is(err, graph.ErrTargetNodeNotFound):
		return http.StatusNotFound, "node_not_found"
	case errors.Is(err, graph.ErrEdgeNotFound):
		return http.StatusNotFound, "edge_not_found"
	case errors.Is(err, dto.ErrSessionLimit):
		return http.StatusTooManyRequests, "session_limit"
	case errors.Is(err, graph.ErrDuplicateEdge):
		return http.StatusConflict, "duplicate_edge"
	case errors.Is(err, editor.ErrConnectionLimit):
		return http.StatusConflict, "connection_limit"
	case errors.Is(err, editor.ErrNoSelection):
		return http.StatusConflict, "no_selection"
	case errors.Is(err, graph.ErrSelfLoop):
		return http.StatusUnprocessableEntity, "self_loop"
	case errors.Is(err, graph.ErrIncompatibleSockets):
		return http.StatusUnprocessableEntity, "incompatible_sockets"
	case errors.Is(err, validation.ErrTooFewNodes):
		return http.StatusUnprocessableEntity, "too_few_nodes"
	case errors.Is(err, validation.ErrMultipleRoots):
		return http.StatusUnprocessableEntity, "multiple_roots"
	case errors.Is(err, validation.ErrSocketLimitExceeded),
		errors.Is(err, graph.ErrDuplicateNode),
		errors.Is(err, graph.ErrDuplicateEdgeID),
		errors.Is(err, graph.ErrInvalidNodeID),
		errors.Is(err, graph.ErrInvalidNodeType),
		errors.Is(err, graph.ErrInvalidSource),
		errors.Is(err, graph.ErrInvalidTarget):
		return http.StatusUnprocessableEntity, "invalid_flow"
	case errors.Is(err, nodekind.ErrUnknownKind),
		errors.Is(err, nodekind.ErrEmptyPayload),
		errors.Is(err, dto.ErrMissingFlowID):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (rt *Router) fail(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	var roots []string
	var saveErr *validation.SaveError
	if errors.As(err, &saveErr) {
		message = saveErr.Message
		roots = saveErr.Roots
	}
	if status == http.StatusInternalServerError {
		rt.logger.Error("request failed", zap.Error(err))
		message = http.StatusText(status)
	}
	respondError(w, status, code, message, roots)
}
