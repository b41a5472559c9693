package collector

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// MaxRetries bounds the attempts of every remote fetch.
var MaxRetries uint64 = 3

func retryGeneral(ctx context.Context, op backoff.Operation) error {
	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			MaxRetries),
		ctx))
}
