package middleware

import (
	"context"
	"fmt"
	"shopkeeper/pkg/logger"
	"time"

	"golang.org/x/time/rate"
)

type RequestFunc func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error

type Middleware func(next RequestFunc) RequestFunc

// Chain wraps fn so that the first middleware runs outermost.
func Chain(fn RequestFunc, mws ...Middleware) RequestFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		fn = mws[i](fn)
	}
	return fn
}

// RateLimit blocks every request until the shared limiter grants a token.
func RateLimit(l *rate.Limiter) Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
			if err := l.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			return next(ctx, method, endpoint, requestBody, response)
		}
	}
}

func Logging(log logger.Logger) Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
			start := time.Now()
			err := next(ctx, method, endpoint, requestBody, response)
			if err != nil {
				log.Log("%s %s failed after %s: %v", method, endpoint, time.Since(start).Round(time.Millisecond), err)
				return err
			}
			log.Log("%s %s in %s", method, endpoint, time.Since(start).Round(time.Millisecond))
			return nil
		}
	}
}

type routeKey struct{}

// WithRoute attaches the unformatted route template so metrics stay low-cardinality.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func RouteFrom(ctx context.Context) string {
	route, _ := ctx.Value(routeKey{}).(string)
	return route
}
