package petstoreserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	customersapp "github.com/petstore/go-petstore-server/internal/domains/customers/application"
	customersports "github.com/petstore/go-petstore-server/internal/domains/customers/ports"
	ordersapp "github.com/petstore/go-petstore-server/internal/domains/orders/application"
	ordersports "github.com/petstore/go-petstore-server/internal/domains/orders/ports"
	petsapp "github.com/petstore/go-petstore-server/internal/domains/pets/application"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
	apierrors "github.com/petstore/go-petstore-server/internal/shared/errors"
)

// apiResponder translates application and port errors into RFC 7807 responses.
// The mapper chain is the only place error kinds become HTTP statuses.
var apiResponder = apierrors.NewChainedResponder("",
	compensationErrorMapper,
	validationErrorMapper,
	notFoundErrorMapper,
	invalidStateErrorMapper,
	conflictErrorMapper,
	transientErrorMapper,
)

// compensation failures come first: they wrap other sentinels and must not be
// downgraded to a retryable conflict.
func compensationErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ordersapp.ErrCompensation) {
		return apierrors.ErrCompensationFailed.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func validationErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, customersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func notFoundErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsports.ErrNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, customersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func invalidStateErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsapp.ErrInvalidState),
		errors.Is(err, ordersapp.ErrInvalidState):
		return apierrors.ErrInvalidState.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func conflictErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsports.ErrConflict),
		errors.Is(err, ordersports.ErrConflict),
		errors.Is(err, customersports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func transientErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsports.ErrTransient),
		errors.Is(err, ordersports.ErrTransient),
		errors.Is(err, customersports.ErrTransient):
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError maps a service error through the responder chain.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	apiResponder.RespondError(c, err)
}

// respondBadRequest reports an unparseable request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	apiResponder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
