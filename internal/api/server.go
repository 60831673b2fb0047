// Package api exposes a trainer session over HTTP so browser or scripted
// clients can drive it.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	"github.com/ingyamilmolinar/rhythmgrid/core/engine"
	"github.com/ingyamilmolinar/rhythmgrid/core/model"
	"github.com/ingyamilmolinar/rhythmgrid/core/notation"
	"github.com/ingyamilmolinar/rhythmgrid/core/placement"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
	"github.com/ingyamilmolinar/rhythmgrid/internal/midiexport"
)

type Server struct {
	eng     *engine.Engine
	surface *engine.StateSurface
	logger  *game_log.Logger
	router  *mux.Router
}

// TimelineView is the body of GET /timeline.
type TimelineView struct {
	engine.Snapshot
	Surface engine.SurfaceState `json:"surface"`
	Shaking bool                `json:"shaking"`
	Labels  [model.Slots]string `json:"labels"`
	Assets  [model.Slots]string `json:"assets"`
}

type selectionRequest struct {
	Color  model.Color `json:"color"`
	Length int         `json:"length"`
}

type tempoRequest struct {
	BPM int `json:"bpm"`
}

type soundRequest struct {
	Mode  string `json:"mode"`
	Pitch string `json:"pitch"`
}

type volumeRequest struct {
	Volume float64 `json:"volume"`
}

type errorResponse struct {
	Error  string           `json:"error"`
	Reason placement.Reason `json:"reason,omitempty"`
}

// NewServer serves eng; surface must be one of the surfaces eng draws to.
func NewServer(eng *engine.Engine, surface *engine.StateSurface, logger *game_log.Logger) *Server {
	s := &Server{eng: eng, surface: surface, logger: logger}
	r := mux.NewRouter().StrictSlash(true)
	r.Use(s.logRequests)
	r.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodGet)
	r.HandleFunc("/selection", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/selection", s.handleDeselect).Methods(http.MethodDelete)
	r.HandleFunc("/slots/{index:[0-9]+}/click", s.handleClick).Methods(http.MethodPost)
	r.HandleFunc("/blocks/{id}", s.handleRemove).Methods(http.MethodDelete)
	r.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)
	r.HandleFunc("/playback/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/playback/stop", s.handleStop).Methods(http.MethodPost)
	r.HandleFunc("/tempo", s.handleTempo).Methods(http.MethodPut)
	r.HandleFunc("/sound", s.handleSound).Methods(http.MethodPut)
	r.HandleFunc("/volume", s.handleVolume).Methods(http.MethodPut)
	r.HandleFunc("/export.mid", s.handleExport).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) Router() *mux.Router { return s.router }

// Handler wraps the router with CORS for browser clients on other origins.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Infof("[API] Listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugf("[API] %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) view() TimelineView {
	v := TimelineView{Snapshot: s.eng.Snapshot()}
	if s.surface != nil {
		v.Surface = s.surface.State()
		v.Shaking = v.Surface.Shaking(time.Now())
	}
	for i := range v.Labels {
		v.Labels[i] = notation.BeatLabel(i)
		v.Assets[i] = notation.Asset(v.Snapshot.Cells[i].Glyph)
	}
	return v
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Color == model.ColorNone {
		s.writeError(w, fault.New("color is required", ftag.With(ftag.InvalidArgument)))
		return
	}
	if req.Length == 0 {
		s.eng.SelectPalette(req.Color)
	} else {
		s.eng.SelectBlockType(req.Length, req.Color)
	}
	writeJSON(w, http.StatusOK, s.eng.Snapshot().Selection)
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.eng.ClickOutside()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || slot < 0 || slot >= model.Slots {
		s.writeError(w, fault.New(fmt.Sprintf("slot %q out of range", mux.Vars(r)["index"]), ftag.With(ftag.NotFound)))
		return
	}
	res := s.eng.ClickSlot(slot)
	if err := res.Err(); err != nil {
		s.logger.Debugf("[API] Click on slot %d rejected: %s", slot, res.Reason)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Reason: res.Reason})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, fault.Wrap(err, fmsg.With("parse block id"), ftag.With(ftag.InvalidArgument)))
		return
	}
	b, ok := s.eng.RemoveBlock(id)
	if !ok {
		s.writeError(w, fault.New(fmt.Sprintf("no block %s", id), ftag.With(ftag.NotFound)))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.eng.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.eng.Start()
	writeJSON(w, http.StatusOK, s.eng.Snapshot().Playback)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.eng.Stop()
	writeJSON(w, http.StatusOK, s.eng.Snapshot().Playback)
}

func (s *Server) handleTempo(w http.ResponseWriter, r *http.Request) {
	var req tempoRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tempoRequest{BPM: s.eng.SetTempo(req.BPM)})
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	var req soundRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Mode != "" {
		m, ok := beat.ParseSoundMode(req.Mode)
		if !ok {
			s.writeError(w, fault.New(fmt.Sprintf("unknown sound mode %q", req.Mode), ftag.With(ftag.InvalidArgument)))
			return
		}
		s.eng.SetSoundMode(m)
	}
	if req.Pitch != "" {
		s.eng.SetPitch(req.Pitch)
	}
	writeJSON(w, http.StatusOK, s.eng.Snapshot().Playback)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, volumeRequest{Volume: s.eng.SetVolume(req.Volume)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.eng.Snapshot()
	metronome, _ := strconv.ParseBool(r.URL.Query().Get("metronome"))
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", `attachment; filename="measure.mid"`)
	err := midiexport.Write(w, snap.Blocks, midiexport.Options{
		BPM:       snap.Playback.BPM,
		Mode:      snap.Playback.Mode,
		Pitch:     snap.Playback.Pitch,
		Metronome: metronome,
	})
	if err != nil {
		s.logger.Errorf("[API] Export failed: %v", err)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if ftag.Get(err) == ftag.InvalidArgument {
			return err
		}
		return fault.Wrap(err, fmsg.With("decode request"), ftag.With(ftag.InvalidArgument))
	}
	return nil
}

func statusFor(err error) int {
	switch ftag.Get(err) {
	case ftag.InvalidArgument:
		return http.StatusUnprocessableEntity
	case ftag.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Errorf("[API] %v", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
