package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"goprofile/internal/errors"
)

// Version reported by the health endpoint
const Version = "1.0.0"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		Version:       Version,
		Environment:   s.cfg.Server.Environment,
		Memory: MemoryStats{
			AllocMB:      float64(mem.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(mem.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(mem.Sys) / 1024 / 1024,
			NumGC:        mem.NumGC,
		},
		RequestID: requestIDFrom(r.Context()),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if req.CSV == nil {
		s.respondError(w, r, http.StatusBadRequest, "csv field is required", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Limits.RequestTimeout)
	defer cancel()

	outcome, err := s.service.ProfileCSV(ctx, *req.CSV, req.Options.Resolve())
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		Success:   true,
		RequestID: requestIDFrom(r.Context()),
		FromCache: outcome.FromCache,
		Data:      outcome.Report,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Limits.RequestTimeout)
	defer cancel()

	start := time.Now()
	comparison, report1, report2, err := s.service.CompareRecords(ctx, req.Dataset1, req.Dataset2, req.Options.Resolve())
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, CompareResponse{
		Success:   true,
		RequestID: requestIDFrom(r.Context()),
		Data: &CompareData{
			Comparison: comparison,
			Profile1:   report1,
			Profile2:   report2,
			TimingMs:   float64(time.Since(start).Microseconds()) / 1000,
		},
	})
}

// handleProfileUsage answers GET /api/profile with a self-describing usage
// document; it has no side effects
func (s *Server) handleProfileUsage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"endpoint": "/api/profile",
		"method":   "POST",
		"body": map[string]interface{}{
			"csv": "string (required, 10 bytes to 50MB)",
			"options": map[string]string{
				"delimiter":      "string, default \",\"",
				"skipEmptyLines": "bool, default true",
				"enableSampling": "bool, default true",
				"sampleSize":     "int, default 5000",
				"fullAnalysis":   "bool, default false",
				"useCache":       "bool, default true",
			},
		},
		"response":  "per-column statistics, correlations, insights",
		"requestId": requestIDFrom(r.Context()),
	})
}

func (s *Server) respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	message := "internal server error"

	switch code {
	case errors.CodeValidationError, errors.CodeParseError:
		status = http.StatusBadRequest
		message = err.Error()
	case errors.CodeTimeoutError:
		message = "analysis timed out"
	default:
		// Sanitized message; the cause stays in the logs
		s.logger.Error("request %s failed: %v", requestIDFrom(r.Context()), err)
	}

	s.respondError(w, r, status, message, "")
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message, details string) {
	if status >= 500 {
		s.logger.Error("%d %s: %s", status, r.URL.Path, message)
	}
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		Details:   details,
		RequestID: requestIDFrom(r.Context()),
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
