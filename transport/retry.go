package transport

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const defaultRetryBase = 100 * time.Millisecond

// Retry returns middleware that re-attempts query operations after transport
// failures and 5xx statuses, with exponential backoff starting at base.
// Mutations always pass through untouched: the link cannot know whether a
// failed mutation reached the server.
func Retry(attempts int, base time.Duration) Middleware {
	if attempts < 1 {
		attempts = 1
	}
	if base <= 0 {
		base = defaultRetryBase
	}
	return func(next Link) Link {
		return LinkFunc(func(ctx context.Context, req *Request) (*Response, error) {
			if req.Kind != KindQuery {
				return next.RoundTrip(ctx, req)
			}
			var (
				resp *Response
				err  error
			)
			for attempt := 0; attempt < attempts; attempt++ {
				if attempt > 0 {
					select {
					case <-ctx.Done():
						return nil, ctx.Err()
					case <-time.After(base << (attempt - 1)):
					}
				}
				resp, err = next.RoundTrip(ctx, req)
				if err == nil || !retryable(err) {
					return resp, err
				}
			}
			return resp, err
		})
	}
}

// retryable reports whether err is a transport failure worth another attempt:
// a request that never got a response, or one answered with a 5xx status.
// Decode failures and 4xx answers are final.
func retryable(err error) bool {
	var errs Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return false
	}
	e := errs[0]
	if e.GetCode() != ErrRequestError {
		return false
	}
	if status := e.StatusCode(); status != 0 {
		return status >= http.StatusInternalServerError
	}
	return true
}
