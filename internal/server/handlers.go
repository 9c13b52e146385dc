package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codeveil/codeveil/internal/audit"
	"github.com/codeveil/codeveil/internal/demo"
	"github.com/codeveil/codeveil/internal/sanitize"
	"github.com/codeveil/codeveil/internal/scoring"
	"github.com/codeveil/codeveil/internal/session"
	"github.com/codeveil/codeveil/internal/websocket"
)

// Version is the server version reported by /health and /info.
const Version = "0.4.0"

// SanitizeRequest is the body of POST /v1/sanitize. Text is a pointer so
// a missing field is distinguishable from an empty string.
type SanitizeRequest struct {
	Text       *string `json:"text"`
	Language   string  `json:"language,omitempty"`
	Profile    string  `json:"profile,omitempty"`
	SessionKey string  `json:"session_key,omitempty"`
}

// SanitizeResponse is the body of a successful sanitize call.
type SanitizeResponse struct {
	RequestID       string                    `json:"request_id"`
	TransformedText string                    `json:"transformed_text"`
	Profile         string                    `json:"profile"`
	Intensity       float64                   `json:"intensity"`
	Degraded        bool                      `json:"degraded"`
	Report          []sanitize.CategoryReport `json:"report"`
	Metrics         *scoring.SecurityMetrics  `json:"metrics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","version":%q,"timestamp":%q}`,
		Version, time.Now().Format(time.RFC3339))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	engine, _ := s.pipeline()
	cfg := s.currentConfig()
	info := map[string]interface{}{
		"name":            "codeveil",
		"version":         Version,
		"default_profile": cfg.Sanitizer.DefaultProfile,
		"profiles":        []string{"paranoid", "balanced", "performance"},
		"rules":           engine.RuleCount(),
		"uptime":          time.Since(s.startTime).String(),
		"total_requests":  s.requestTotal(),
		"websocket":       cfg.WebSocket.Enabled,
		"sessions":        s.sessions != nil,
		"audit":           s.auditTrail != nil,
	}
	writeJSON(w, http.StatusOK, info)
}

// handleWebSocket hands the upgrade to the hub with the resolved client IP.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleUpgrade(w, r, clientIP(r))
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)

	var req SanitizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "missing required field: text")
		return
	}

	profile := req.Profile
	if profile == "" {
		profile = s.defaultProfile()
	}

	engine, calculator := s.pipeline()
	start := time.Now()
	result, err := engine.Sanitize(*req.Text, profile)
	if err != nil {
		if errors.Is(err, sanitize.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "text is not valid UTF-8")
			return
		}
		log.Error("sanitize failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "sanitize failed")
		return
	}

	metrics := calculator.Score(result.OriginalText, result.TransformedText)
	elapsed := time.Since(start)

	matched, skipped := 0, 0
	for _, c := range result.Report {
		matched += c.Matched
		skipped += c.Skipped
	}

	log.Info("text sanitized",
		zap.String("profile", string(result.Profile)),
		zap.String("language", req.Language),
		zap.Int("input_bytes", len(result.OriginalText)),
		zap.Int("output_bytes", len(result.TransformedText)),
		zap.Int("rules_matched", matched),
		zap.Float64("privacy_score", metrics.PrivacyScore),
		zap.Duration("duration", elapsed),
	)

	if s.sessions != nil && req.SessionKey != "" {
		entry := &session.Entry{
			TransformedText: result.TransformedText,
			Profile:         string(result.Profile),
			Metrics:         metrics,
			StoredAt:        time.Now(),
		}
		if err := s.sessions.Put(r.Context(), req.SessionKey, entry); err != nil {
			// Storage trouble degrades the feature, not the request.
			log.Error("failed to store session entry", zap.Error(err))
		}
	}

	if s.auditTrail != nil {
		rec := &audit.Record{
			RequestID:       requestID,
			Profile:         string(result.Profile),
			Language:        req.Language,
			InputBytes:      len(result.OriginalText),
			OutputBytes:     len(result.TransformedText),
			RulesMatched:    matched,
			RulesSkipped:    skipped,
			PrivacyScore:    metrics.PrivacyScore,
			LeakageRisk:     metrics.LeakageRisk,
			ReductionRate:   metrics.TransformationDetails.ReductionRate,
			ComplianceReady: metrics.ComplianceReady,
		}
		if err := s.auditTrail.Insert(r.Context(), rec); err != nil {
			log.Error("failed to write audit record", zap.Error(err))
		}
	}

	s.wsHub.Broadcast(websocket.Event{
		Type:      websocket.EventTypeSanitizeReport,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: websocket.SanitizeReportEvent{
			RequestID:    requestID,
			Profile:      string(result.Profile),
			Language:     req.Language,
			InputBytes:   len(result.OriginalText),
			OutputBytes:  len(result.TransformedText),
			RulesMatched: matched,
			Metrics:      metrics,
			ProcessingMS: float64(elapsed.Nanoseconds()) / 1e6,
		},
	})

	writeJSON(w, http.StatusOK, SanitizeResponse{
		RequestID:       requestID,
		TransformedText: result.TransformedText,
		Profile:         string(result.Profile),
		Intensity:       result.Intensity,
		Degraded:        result.Degraded(),
		Report:          result.Report,
		Metrics:         metrics,
	})
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "session store disabled")
		return
	}
	key := mux.Vars(r)["key"]

	entry, err := s.sessions.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("session lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "session store disabled")
		return
	}
	key := mux.Vars(r)["key"]

	if err := s.sessions.Delete(r.Context(), key); err != nil {
		s.logger.Error("session delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDemoList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": demo.Categories(),
	})
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	sample, ok := demo.Lookup(category)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown demo category")
		return
	}

	engine, calculator := s.pipeline()
	result, err := engine.Sanitize(sample.Input, sample.Profile)
	if err != nil {
		s.logger.Error("demo sanitize failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "demo failed")
		return
	}
	metrics := calculator.Score(result.OriginalText, result.TransformedText)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sample":           sample,
		"transformed_text": result.TransformedText,
		"report":           result.Report,
		"metrics":          metrics,
	})
}

func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	if s.auditTrail == nil {
		writeError(w, http.StatusServiceUnavailable, "audit trail disabled")
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.auditTrail.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("audit list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "audit list failed")
		return
	}
	count, err := s.auditTrail.Count(r.Context())
	if err != nil {
		s.logger.Error("audit count failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "audit count failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   count,
		"records": records,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
