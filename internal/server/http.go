package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/save"
	"github.com/xtding233/idle-backend/internal/session"
)

type invokeResp struct {
	Action  string `json:"action"`
	Changed bool   `json:"changed"`
	Err     string `json:"err,omitempty"`
}

type errResp struct {
	Err string `json:"err"`
}

type tickResp struct {
	Ticked bool `json:"ticked"`
	Won    bool `json:"won"`
}

// NewHTTP serves the JSON API and, when hub is non-nil, the WebSocket feed.
func NewHTTP(sess *session.Session, hub *Hub) http.Handler {
	h := &httpHandlers{sess: sess}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /v1/view", h.handleView)
	mux.HandleFunc("GET /v1/actions", h.handleActions)
	mux.HandleFunc("POST /v1/actions/{name}", h.handleInvoke)
	mux.HandleFunc("POST /v1/tick", h.handleTick)
	mux.HandleFunc("POST /v1/reset", h.handleReset)
	mux.HandleFunc("GET /v1/save", h.handleExport)
	if hub != nil {
		mux.HandleFunc("GET /ws", hub.ServeWS)
	}
	return logRequests(corsMiddleware(mux))
}

type httpHandlers struct {
	sess *session.Session
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func (h *httpHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "session": h.sess.ID()})
}

func (h *httpHandlers) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sess.View())
}

func (h *httpHandlers) handleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sess.Actions())
}

// a rejected action is still a 200; only unknown names are errors
func (h *httpHandlers) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	changed, err := h.sess.Invoke(r.Context(), name)
	resp := invokeResp{Action: name, Changed: changed}
	status := http.StatusOK
	if err != nil {
		resp.Err = err.Error()
		status = http.StatusBadRequest
		if errors.Is(err, session.ErrUnknownAction) {
			status = http.StatusNotFound
		}
	}
	writeJSON(w, status, resp)
}

// handleTick advances the game by exactly ?seconds=, for clients that drive
// their own clock. Neither the frame clamp nor dev speed apply.
func (h *httpHandlers) handleTick(w http.ResponseWriter, r *http.Request) {
	secs, ok, msg := parseFloat(r, "seconds")
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	if !ok || secs < 0 {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing/invalid param seconds"})
		return
	}
	ticked := h.sess.Tick(decimal.NewFromFloat(secs))
	writeJSON(w, http.StatusOK, tickResp{Ticked: ticked, Won: h.sess.Won()})
}

func (h *httpHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	h.sess.Reset(r.Context())
	writeJSON(w, http.StatusOK, h.sess.View())
}

func (h *httpHandlers) handleExport(w http.ResponseWriter, r *http.Request) {
	b, err := save.Encode(h.sess.Snapshot(time.Now()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Err: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(b)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.DebugContext(r.Context(), "http request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}
