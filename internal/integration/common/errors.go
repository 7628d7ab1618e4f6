package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docchat/internal/entity"
	pkgHTTP "github.com/futig/docchat/pkg/http"
)

// Classify maps transport errors onto the domain error taxonomy
func Classify(service string, err error) error {
	if err == nil {
		return nil
	}

	var (
		netErr    *pkgHTTP.NetworkError
		httpErr   *pkgHTTP.HTTPError
		decodeErr *pkgHTTP.DecodeError
	)

	switch {
	case errors.As(err, &decodeErr):
		return fmt.Errorf("%w: %s: %v", entity.ErrMalformedResponse, service, err)
	case errors.As(err, &httpErr):
		return fmt.Errorf("%w: %s: %v", entity.ErrServiceResponse, service, err)
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s: %v", entity.ErrConnection, service, err)
	default:
		return fmt.Errorf("%s: %w", service, err)
	}
}
