package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/service"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// statusFor переводит доменную ошибку в HTTP-статус.
// ErrStaleCart проверяется раньше ErrValidation, так как оборачивает её.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrStaleCart):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrIllegalTransition), errors.Is(err, errs.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage текст ошибки для клиента. Наружу уходят только тексты доменных
// ошибок, без имён операций и деталей хранилища.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusBadGateway:
		return errs.ErrPersistence.Error()
	case http.StatusInternalServerError:
		return "internal server error"
	}
	if errors.Is(err, errs.ErrStaleCart) {
		return errs.ErrStaleCart.Error()
	}
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	for _, known := range []error{
		errs.ErrEmptyCart,
		service.ErrInvalidCredentials,
		errs.ErrUnauthorized,
		errs.ErrNotFound,
		errs.ErrIllegalTransition,
		errs.ErrInFlight,
		errs.ErrValidation,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return http.StatusText(status)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Errors: msg})
}

// writeServiceError логирует ошибку сервиса и отвечает соответствующим статусом
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	} else {
		logger.Warn("request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	writeError(w, logger, status, publicMessage(err, status))
}
