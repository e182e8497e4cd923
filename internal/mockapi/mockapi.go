// Package mockapi is an in-memory stand-in for the game API, used by
// cmd/mock and end-to-end tests.
package mockapi

import (
	crand "crypto/rand"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

type player struct {
	username   string
	energy     int
	energyMax  int
	tapPower   int
	tasks      map[string]bool
	claimedDay string
	lastTapAt  time.Time
}

// Server keeps one player per bearer token, created on first use.
type Server struct {
	mu        sync.Mutex
	players   map[string]*player
	energyMax int
	tapPower  int
}

func New(energy, tapPower int) *Server {
	return &Server{players: make(map[string]*player), energyMax: energy, tapPower: tapPower}
}

// Handler serves the API under /api.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/profile", s.withPlayer(http.MethodGet, s.profile))
	mux.HandleFunc("/api/tasks/complete", s.withPlayer(http.MethodPost, s.completeTask))
	mux.HandleFunc("/api/game/claim-daily-reward", s.withPlayer(http.MethodPost, s.claim))
	mux.HandleFunc("/api/game/tap", s.withPlayer(http.MethodPost, s.tap))
	return mux
}

// Energy reports the current energy of token's player, -1 if unknown.
func (s *Server) Energy(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.players[token]; p != nil {
		return p.energy
	}
	return -1
}

func (s *Server) withPlayer(method string, h func(w http.ResponseWriter, r *http.Request, p *player)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		p := s.players[token]
		if p == nil {
			p = &player{
				username:  "mock_" + randString(6),
				energy:    s.energyMax,
				energyMax: s.energyMax,
				tapPower:  s.tapPower,
				tasks:     make(map[string]bool),
			}
			s.players[token] = p
		}
		h(w, r, p)
	}
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request, p *player) {
	var lastEnergy any
	if !p.lastTapAt.IsZero() {
		lastEnergy = p.lastTapAt.UnixMilli()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playerData": map[string]any{
			"username":          p.username,
			"energy":            p.energy,
			"energy_max":        p.energyMax,
			"energy_level":      1,
			"tap_power":         p.tapPower,
			"fullEnergy":        map[string]any{"lastUsed": time.Now().Add(-24 * time.Hour).UnixMilli()},
			"lastEnergyTime":    lastEnergy,
			"lastDataClaimTime": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request, p *player) {
	var body struct {
		TaskID string `json:"taskId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.TaskID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "taskId is required"})
		return
	}
	if p.tasks[body.TaskID] {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Task already completed"})
		return
	}
	p.tasks[body.TaskID] = true
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) claim(w http.ResponseWriter, _ *http.Request, p *player) {
	today := time.Now().Format("2006-01-02")
	if p.claimedDay == today {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Daily reward already claimed"})
		return
	}
	p.claimedDay = today
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) tap(w http.ResponseWriter, r *http.Request, p *player) {
	var body struct {
		Taps int `json:"taps"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	cost := body.Taps * p.tapPower
	if body.Taps <= 0 || cost > p.energy {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Not enough energy"})
		return
	}
	p.energy -= cost
	p.lastTapAt = time.Now()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "energy": p.energy})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func randString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	if n <= 0 {
		return ""
	}
	raw := make([]byte, n)
	_, _ = crand.Read(raw)
	out := make([]byte, n)
	for i := range out {
		out[i] = letters[int(raw[i])%len(letters)]
	}
	return string(out)
}
