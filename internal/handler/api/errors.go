package api

import (
	"errors"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"
)

// ToAppError maps the domain error taxonomy onto HTTP errors.
func ToAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, models.ErrInvalidTicker):
		return xhttp.BadRequestError("ERR_INVALID_TICKER", "ticker", "ticker must look like PETR4, VALE3 or BOVA11").WithError(err)
	case errors.Is(err, models.ErrTickerNotFound):
		return xhttp.NotFoundError("ERR_TICKER_NOT_FOUND", "ticker not found in any provider").WithError(err)
	case errors.Is(err, models.ErrAllProvidersFailed):
		return xhttp.ServiceUnavailableError("ERR_ALL_PROVIDERS_FAILED", "no provider answered and no cached data is available").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
