package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"league-intel/internal/api"
	"league-intel/internal/domain"
	"league-intel/internal/service"

	"github.com/rs/zerolog"
)

// IntelServer exposes the report pipeline to the UI layer as plain JSON.
type IntelServer struct {
	connect *service.ConnectService
	intel   *service.IntelService
	catalog *service.CatalogService
	logger  zerolog.Logger
}

func NewIntelServer(connect *service.ConnectService, intel *service.IntelService, catalog *service.CatalogService, logger zerolog.Logger) *IntelServer {
	return &IntelServer{connect: connect, intel: intel, catalog: catalog, logger: logger}
}

// Register mounts every route on the mux.
func (s *IntelServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/connect/{username}", s.handleConnect)
	mux.HandleFunc("GET /api/league/{id}/intel", s.handleLeagueIntel)
	mux.HandleFunc("POST /api/players/by-ids", s.handlePlayersByIDs)
}

func (s *IntelServer) handleConnect(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		s.writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	session, err := s.connect.Connect(r.Context(), username, r.URL.Query().Get("season"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *IntelServer) handleLeagueIntel(w http.ResponseWriter, r *http.Request) {
	leagueID := r.PathValue("id")
	if leagueID == "" {
		s.writeError(w, http.StatusBadRequest, "league id is required")
		return
	}

	query := r.URL.Query()
	lookback := 2
	if raw := query.Get("lookback"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "lookback must be an integer")
			return
		}
		lookback = parsed
	}
	refresh := query.Get("refresh") == "true" || query.Get("refresh") == "1"

	envelope, err := s.intel.BuildReport(r.Context(), leagueID, query.Get("user_id"), lookback, refresh)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope)
}

type playersByIDsRequest struct {
	IDs []string `json:"ids"`
}

type playersByIDsResponse struct {
	Count        int                            `json:"count"`
	RequestedIDs int                            `json:"requested_ids"`
	Players      map[string]domain.PlayerRecord `json:"players"`
}

func (s *IntelServer) handlePlayersByIDs(w http.ResponseWriter, r *http.Request) {
	var req playersByIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body must be JSON with an ids array")
		return
	}

	players, err := s.catalog.LookupByIDs(r.Context(), req.IDs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, playersByIDsResponse{
		Count:        len(players),
		RequestedIDs: len(req.IDs),
		Players:      players,
	})
}

func (s *IntelServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrNotFound), errors.Is(err, service.ErrLeagueUnavailable):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *IntelServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *IntelServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
