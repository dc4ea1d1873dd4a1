package http

import (
	"errors"
	"net/http"

	"github.com/hardwayp3nny/ioweb/internal/config"
	"github.com/hardwayp3nny/ioweb/internal/service"
)

type errorResponse struct {
	status  int
	message string
}

// errorMapper переводит ошибки сервиса в ответы.
// compat: любая ошибка чтения/записи снапшота превращается в 500 с общим текстом.
// typed: у каждой причины свой код, а чтение до первой записи даёт 204.
type errorMapper struct {
	typed bool
}

func newErrorMapper(mode string) errorMapper {
	return errorMapper{typed: mode == config.ErrorMappingTyped}
}

func (m errorMapper) resolve(err error, fallback string) errorResponse {
	// некорректные параметры запроса в обоих режимах 400
	if errors.Is(err, service.ErrInvalidInput) {
		return errorResponse{http.StatusBadRequest, "Invalid input"}
	}

	if !m.typed {
		return errorResponse{http.StatusInternalServerError, fallback}
	}

	switch {
	case errors.Is(err, service.ErrSnapshotNotFound):
		return errorResponse{http.StatusNoContent, ""}
	case errors.Is(err, service.ErrMalformedInput):
		return errorResponse{http.StatusBadRequest, "Malformed JSON body"}
	case errors.Is(err, service.ErrInvalidSnapshot):
		return errorResponse{http.StatusUnprocessableEntity, "Snapshot does not match schema"}
	case errors.Is(err, service.ErrStoreUnavailable):
		return errorResponse{http.StatusServiceUnavailable, "Snapshot store unavailable"}
	default:
		return errorResponse{http.StatusInternalServerError, fallback}
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, err error, fallback string) {
	resp := s.errors.resolve(err, fallback)

	setCORSHeaders(w)
	if resp.status == http.StatusNoContent {
		w.WriteHeader(resp.status)
		return
	}
	http.Error(w, resp.message, resp.status)
}
