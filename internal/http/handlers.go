package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/hardwayp3nny/ioweb/internal/service"

	"go.uber.org/zap"
)

const (
	fetchErrorMessage = "Error fetching data"
	saveErrorMessage  = "Error saving data"
)

func (s *HTTPServer) getSnapshot(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.GetSnapshot(r.Context())
	if err != nil {
		s.logFailure("Failed to get snapshot", err)
		s.writeError(w, err, fetchErrorMessage)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (s *HTTPServer) putSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		err = &service.Error{Kind: service.ErrMalformedInput, Err: err}
		s.logFailure("Failed to read request body", err)
		s.writeError(w, err, saveErrorMessage)
		return
	}

	if err := s.service.SaveSnapshot(r.Context(), body); err != nil {
		s.logFailure("Failed to save snapshot", err)
		s.writeError(w, err, saveErrorMessage)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, "Data saved"); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (s *HTTPServer) getSeries(w http.ResponseWriter, r *http.Request) {
	set, err := s.service.Series(r.Context())
	if err != nil {
		s.logFailure("Failed to build series", err)
		s.writeError(w, err, fetchErrorMessage)
		return
	}
	s.writeJSON(w, set)
}

func (s *HTTPServer) getLatestRewards(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.LatestRewards(r.Context())
	if err != nil {
		s.logFailure("Failed to build reward table", err)
		s.writeError(w, err, fetchErrorMessage)
		return
	}
	s.writeJSON(w, rows)
}

func (s *HTTPServer) getRoi(w http.ResponseWriter, r *http.Request) {
	processor := r.URL.Query().Get("processor")
	priceStr := r.URL.Query().Get("price")

	if processor == "" || priceStr == "" {
		setCORSHeaders(w)
		http.Error(w, "processor and price parameters are required", http.StatusBadRequest)
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		s.logger.Error("invalid price format",
			zap.Error(err),
			zap.String("received_price", priceStr))
		setCORSHeaders(w)
		http.Error(w, "invalid price format", http.StatusBadRequest)
		return
	}

	result, err := s.service.Roi(r.Context(), processor, price)
	if err != nil {
		s.logFailure("Failed to compute ROI", err, zap.String("processor", processor))
		s.writeError(w, err, fetchErrorMessage)
		return
	}
	s.writeJSON(w, result)
}

func (s *HTTPServer) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CheckStore(r.Context()); err != nil {
		s.logger.Error("Health check failed", zap.Error(err))
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		s.logger.Error("Failed to encode health check response", zap.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
		setCORSHeaders(w)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// logFailure пишет ожидаемые отказы на warn, сбои хранилища на error
func (s *HTTPServer) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if kind := service.KindOf(err); kind != nil {
		fields = append(fields, zap.String("kind", kind.Error()))
	}

	if errors.Is(err, service.ErrStoreUnavailable) {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Warn(msg, fields...)
}
