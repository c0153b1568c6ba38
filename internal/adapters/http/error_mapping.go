package httpadapter

import (
	"net/http"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrModelCall), domain.IsKind(err, domain.ErrModelOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
