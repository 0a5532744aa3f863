package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/flowgraph/flowbuilder/internal/app/dto"
	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/app/usecases"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/flowgraph/flowbuilder/pkg/serialization"
	"github.com/go-chi/chi/v5"
)

type ctxKey struct{}

// loadSession resolves {flowID} and stores the session in the request
// context.
func (rt *Router) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := rt.sessions.Get(r.Context(), chi.URLParam(r, "flowID"))
		if err != nil {
			rt.fail(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, session)))
	})
}

func sessionFrom(r *http.Request) *usecases.Session {
	return r.Context().Value(ctxKey{}).(*usecases.Session)
}

func flowResponse(s *usecases.Session) dto.FlowResponse {
	return dto.FlowResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Canvas:    s.Editor.Canvas(),
	}
}

func (rt *Router) getPalette(w http.ResponseWriter, r *http.Request) {
	kinds := rt.sessions.Config().Kinds
	resp := dto.PaletteResponse{Items: []dto.PaletteItem{}}
	for _, desc := range kinds.Palette() {
		payload, err := kinds.DragPayload(desc.Kind)
		if err != nil {
			rt.fail(w, err)
			return
		}
		resp.Items = append(resp.Items, dto.PaletteItem{Descriptor: desc, Payload: payload})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (rt *Router) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg := rt.sessions.Config()
	ttl := cfg.NotificationTTL
	if ttl == 0 {
		ttl = notify.DefaultTTL
	}
	respondJSON(w, http.StatusOK, dto.ConfigResponse{
		ColorMode:       cfg.ColorMode,
		NotificationTTL: ttl.String(),
	})
}

func (rt *Router) createFlow(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFlowRequest
	if r.ContentLength != 0 {
		if !rt.validator.Decode(w, r, &req) {
			return
		}
	}

	var (
		session *usecases.Session
		err     error
	)
	if req.Flow != nil {
		session, err = rt.sessions.Import(r.Context(), req.Flow.ToFlow())
	} else {
		session, err = rt.sessions.Create(r.Context())
	}
	if err != nil {
		rt.fail(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/flows/%s", session.ID))
	respondJSON(w, http.StatusCreated, flowResponse(session))
}

func (rt *Router) listFlows(w http.ResponseWriter, r *http.Request) {
	sessions, err := rt.sessions.List(r.Context())
	if err != nil {
		rt.fail(w, err)
		return
	}
	out := make([]dto.FlowSummary, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Editor.Snapshot()
		out = append(out, dto.FlowSummary{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			Nodes:     len(snap.Nodes),
			Edges:     len(snap.Edges),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (rt *Router) getFlow(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, flowResponse(sessionFrom(r)))
}

func (rt *Router) deleteFlow(w http.ResponseWriter, r *http.Request) {
	if err := rt.sessions.Close(r.Context(), sessionFrom(r).ID); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) exportFlow(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	s := serialization.Negotiate(r.Header.Get("Accept"), r.Header.Get("Accept-Encoding"))

	data, err := s.Serialize(session.Editor.Snapshot())
	if err != nil {
		rt.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", s.ContentType())
	if enc := s.ContentEncoding(); enc != "" {
		w.Header().Set("Content-Encoding", enc)
	}
	w.Header().Add("Vary", "Accept")
	w.Header().Add("Vary", "Accept-Encoding")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="flow-%s.%s"`, session.ID, s.Config().Codec.Name()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) setViewport(w http.ResponseWriter, r *http.Request) {
	var req dto.PositionRequest
	if !rt.validator.Decode(w, r, &req) {
		return
	}
	sessionFrom(r).Editor.SetViewportOrigin(req.Point())
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) dropNode(w http.ResponseWriter, r *http.Request) {
	var req dto.DropRequest
	if !rt.validator.Decode(w, r, &req) {
		return
	}
	node, err := sessionFrom(r).Editor.Drop(req.Payload, req.Screen.Point())
	if err != nil {
		rt.fail(w, err)
		return
	}
	if node == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusCreated, node)
}

func (rt *Router) moveNode(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveNodeRequest
	if !rt.validator.Decode(w, r, &req) {
		return
	}
	if err := sessionFrom(r).Editor.MoveNode(chi.URLParam(r, "nodeID"), req.Position.Point()); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) connect(w http.ResponseWriter, r *http.Request) {
	var req dto.ConnectRequest
	if !rt.validator.Decode(w, r, &req) {
		return
	}
	edge, err := sessionFrom(r).Editor.Connect(
		req.Source, graph.Socket(req.SourceHandle),
		req.Target, graph.Socket(req.TargetHandle),
	)
	if err != nil {
		rt.fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, edge)
}

func (rt *Router) deleteEdge(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).Editor.DeleteEdge(chi.URLParam(r, "edgeID")); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) selectNode(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectRequest
	if !rt.validator.Decode(w, r, &req) {
		return
	}
	ed := sessionFrom(r).Editor
	if err := ed.SelectNode(req.NodeID); err != nil {
		rt.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ed.Panel())
}

func (rt *Router) clearSelection(w http.ResponseWriter, r *http.Request) {
	ed := sessionFrom(r).Editor
	ed.ClearSelection()
	respondJSON(w, http.StatusOK, ed.Panel())
}

func (rt *Router) updateMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.MessageRequest
	if !rt.validator.Decode(w, r, &req) {
		return
	}
	inspector := editor.NewInspector(sessionFrom(r).Editor)
	if err := inspector.Change(req.Message); err != nil {
		rt.fail(w, err)
		return
	}
	view, ok := inspector.View()
	if !ok {
		rt.fail(w, editor.ErrNoSelection)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (rt *Router) deleteSelectedNode(w http.ResponseWriter, r *http.Request) {
	deleted := editor.NewInspector(sessionFrom(r).Editor).Delete()
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (rt *Router) getPanel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFrom(r).Editor.Panel())
}

func (rt *Router) save(w http.ResponseWriter, r *http.Request) {
	result, err := sessionFrom(r).Editor.ValidateAndSave()
	if err != nil {
		rt.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (rt *Router) getNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := sessionFrom(r).Editor.Notification()
	resp := dto.NotificationResponse{Active: ok}
	if ok {
		resp.Kind = string(n.Kind)
		resp.Text = n.Text
		if !n.ExpiresAt.IsZero() {
			expires := n.ExpiresAt
			resp.ExpiresAt = &expires
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
