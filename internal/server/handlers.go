package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flockview/flockview/pkg/buildinfo"
	flockerrors "github.com/flockview/flockview/pkg/errors"
	"github.com/flockview/flockview/pkg/httputil"
	"github.com/flockview/flockview/pkg/layout"
	"github.com/flockview/flockview/pkg/observability"
	"github.com/flockview/flockview/pkg/pipeline"
	"github.com/flockview/flockview/pkg/socialgraph"
	"github.com/flockview/flockview/pkg/view"
)

// viewRequest is the body of POST /api/v1/view. The embedded pipeline
// options flatten into the top level, so params, engine, previous and
// refresh ride alongside the snapshot.
type viewRequest struct {
	Snapshot json.RawMessage `json:"snapshot"`
	pipeline.Options
}

// viewResponse is the body of a successful POST /api/v1/view.
type viewResponse struct {
	BuildID      string             `json:"buildId"`
	SnapshotHash string             `json:"snapshotHash"`
	ViewHash     string             `json:"viewHash"`
	View         *view.View         `json:"view"`
	Positions    layout.PositionMap `json:"positions"`
	Align        *layout.AlignStats `json:"align,omitempty"`
	Cache        cacheStatus        `json:"cache"`
}

// cacheStatus reports which pipeline stages were served from cache.
type cacheStatus struct {
	Build  bool `json:"build"`
	Layout bool `json:"layout"`
}

// handleView builds a view from the posted snapshot, computes positions,
// and aligns them onto the previous frame when one is supplied.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Snapshot) == 0 {
		s.writeError(w, r, flockerrors.New(flockerrors.ErrCodeInvalidSnapshot, "missing snapshot"))
		return
	}

	snap, err := socialgraph.ReadSnapshot(bytes.NewReader(req.Snapshot))
	if err != nil {
		s.writeError(w, r, flockerrors.Wrap(flockerrors.ErrCodeInvalidSnapshot, err, "parse snapshot"))
		return
	}

	opts := req.Options
	opts.Logger = s.cfg.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := viewResponse{
		BuildID:      result.BuildID,
		SnapshotHash: result.SnapshotHash,
		ViewHash:     result.ViewHash,
		View:         result.View,
		Positions:    result.Positions,
		Cache: cacheStatus{
			Build:  result.CacheInfo.BuildHit,
			Layout: result.CacheInfo.LayoutHit,
		},
	}
	if opts.ShouldAlign() {
		align := result.Align
		resp.Align = &align
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// alignRequest is the body of POST /api/v1/align.
type alignRequest struct {
	Previous layout.PositionMap `json:"previous"`
	Current  layout.PositionMap `json:"current"`
}

// alignResponse is the body of a successful POST /api/v1/align.
type alignResponse struct {
	Positions layout.PositionMap `json:"positions"`
	Align     layout.AlignStats  `json:"align"`
}

// handleAlign fits the current frame onto the previous one. An empty
// previous frame is allowed and returns the current frame unchanged.
func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	var req alignRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Current) == 0 {
		s.writeError(w, r, flockerrors.New(flockerrors.ErrCodeInvalidInput, "missing current positions"))
		return
	}

	positions, stats := layout.Align(req.Previous, req.Current)
	httputil.JSON(w, http.StatusOK, alignResponse{Positions: positions, Align: stats})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion reports build information.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// writeError reports err to the observability hooks and writes the JSON
// error envelope with a status derived from the error code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = codeParamsError(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	status := httputil.StatusForError(err)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	httputil.Error(w, status, err)
}

// codeParamsError attaches the INVALID_PARAMS code to the sentinel
// validation errors from pkg/view, which arrive uncoded from the pipeline.
func codeParamsError(err error) error {
	if errors.Is(err, view.ErrInvalidSubgraphSize) || errors.Is(err, view.ErrMissingSeedSet) {
		return flockerrors.New(flockerrors.ErrCodeInvalidParams, "%s", err.Error())
	}
	return err
}
