package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/geodesic-labs/arealens/internal/compare"
	gj "github.com/geodesic-labs/arealens/internal/geojson"
	"github.com/geodesic-labs/arealens/internal/gridagg"
	"github.com/geodesic-labs/arealens/internal/i18n"
	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/store"
	"github.com/geodesic-labs/arealens/internal/zones"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDataset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(s.points),
		"bbox":   s.cfg.Synth.BBox,
		"points": gj.PointFeatures(s.points),
	})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	tag := i18n.Match(lang)
	writeJSON(w, http.StatusOK, map[string]any{
		"language":   tag.String(),
		"indicators": i18n.Indicators(tag),
	})
}

func (s *Server) handleDepartments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.departments)
}

// aggregateFromQuery runs one aggregation described by ?size= or ?zones=.
func (s *Server) aggregateFromQuery(r *http.Request) (model.AggregateSet, error) {
	q := r.URL.Query()

	if zoneSet := q.Get("zones"); zoneSet != "" {
		if zoneSet != zones.DepartementsSetName {
			return model.AggregateSet{}, eris.Errorf("unknown zone set %q", zoneSet)
		}
		return gridagg.AggregateZones(s.points, model.PointAttrs(), zones.Departements())
	}

	size := s.cfg.Grid.DefaultSize
	if raw := q.Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return model.AggregateSet{}, eris.Errorf("invalid grid size %q", raw)
		}
		size = parsed
	}
	if !s.cfg.Grid.Allows(size) {
		return model.AggregateSet{}, eris.Errorf("grid size %d outside [%d, %d]",
			size, s.cfg.Grid.MinSize, s.cfg.Grid.MaxSize)
	}

	return gridagg.AggregateGrid(s.points, model.PointAttrs(), gridagg.GridSpec{
		Size: size,
		BBox: s.cfg.Synth.BBox,
	})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	set, err := s.aggregateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	set, err := s.aggregateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	indRaw := r.URL.Query().Get("indicator")
	if indRaw == "" {
		indRaw = string(model.IndicatorWarehouseDensity)
	}
	ind, err := model.ParseIndicator(indRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fc, err := gj.CellFeatures(set, ind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// compareParams parses sizes/zones/x/y query parameters into compare inputs.
func (s *Server) compareParams(q map[string][]string) ([]model.Granularity, compare.Options, error) {
	get := func(key, def string) string {
		if vs := q[key]; len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
		return def
	}

	var grans []model.Granularity
	sizesRaw := get("sizes", "")
	if sizesRaw == "" {
		for _, size := range s.cfg.Grid.CompareSizes {
			grans = append(grans, model.GridGranularity(size))
		}
	} else {
		for _, part := range strings.Split(sizesRaw, ",") {
			part = strings.TrimSpace(part)
			size, err := strconv.Atoi(part)
			if err != nil {
				return nil, compare.Options{}, eris.Errorf("invalid grid size %q", part)
			}
			if !s.cfg.Grid.Allows(size) {
				return nil, compare.Options{}, eris.Errorf("grid size %d outside [%d, %d]",
					size, s.cfg.Grid.MinSize, s.cfg.Grid.MaxSize)
			}
			grans = append(grans, model.GridGranularity(size))
		}
	}
	if get("zones", "") == zones.DepartementsSetName {
		grans = append(grans, model.ZoneGranularity(zones.DepartementsSetName))
	}

	opts := compare.Options{
		XAttr: get("x", model.AttrMedianIncome),
		YAttr: get("y", model.AttrEmployees),
		BBox:  s.cfg.Synth.BBox,
	}
	return grans, opts, nil
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	grans, opts, err := s.compareParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := compare.Run(s.points, grans, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, eris.New("run store not configured"))
		return
	}

	var req struct {
		Sizes []int  `json:"sizes"`
		Zones string `json:"zones"`
		X     string `json:"x"`
		Y     string `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}

	q := map[string][]string{
		"x": {req.X}, "y": {req.Y}, "zones": {req.Zones},
	}
	if len(req.Sizes) > 0 {
		parts := make([]string, len(req.Sizes))
		for i, s := range req.Sizes {
			parts[i] = strconv.Itoa(s)
		}
		q["sizes"] = []string{strings.Join(parts, ",")}
	}

	grans, opts, err := s.compareParams(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := compare.Run(s.points, grans, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	run, err := s.store.SaveRun(r.Context(), model.CompareParams{
		Seed:          s.cfg.Synth.Seed,
		Count:         s.cfg.Synth.Count,
		Granularities: grans,
		XAttr:         opts.XAttr,
		YAttr:         opts.YAttr,
	}, result)
	if err != nil {
		zap.L().Error("save run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, eris.New("failed to save run"))
		return
	}

	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, eris.New("run store not configured"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	runs, err := s.store.ListRuns(r.Context(), store.RunFilter{Limit: limit, Offset: offset})
	if err != nil {
		zap.L().Error("list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, eris.New("failed to list runs"))
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, eris.New("run store not configured"))
		return
	}

	runID := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, eris.Errorf("run %s not found", runID))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
