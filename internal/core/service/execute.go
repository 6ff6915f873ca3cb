package service

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
)

// execute is the uniform adapter between repository primitives and result
// envelopes, shared by both managers:
//
//   - an already-cancelled context aborts before any repository call and
//     yields the distinct cancellation outcome;
//   - a zero-value result (nil user, false, nil slice) means "absent" and
//     becomes a failure carrying errMsg;
//   - a conflict keeps its caller-facing message;
//   - a repository error is logged with its detail but returned as the
//     generic errMsg — store internals never leak to the caller;
//   - anything else is unexpected: logged and surfaced as an "Unexpected
//     error" failure, which the HTTP boundary converts to 500.
func execute[T any](ctx context.Context, log zerolog.Logger, successMsg, errMsg string, fn func() (T, error)) domain.Result[T] {
	if ctx.Err() != nil {
		log.Warn().AnErr("cause", ctx.Err()).Msg("request cancelled before execution")
		return domain.Cancelled[T]()
	}

	result, err := fn()
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			log.Warn().Str("conflict", conflict.Message).Msg(errMsg)
			return domain.Failure[T](conflict.Message)
		}

		var repoErr *domain.RepositoryError
		if errors.As(err, &repoErr) {
			log.Error().Err(err).Msg(errMsg)
			return domain.Failure[T](errMsg)
		}

		log.Error().Err(err).Msg("unexpected error while executing identity operation")
		return domain.Failure[T]("Unexpected error occurred while executing the operation.")
	}

	if isAbsent(result) {
		return domain.Failure[T](errMsg)
	}

	log.Info().Msg(successMsg)
	return domain.Success(result)
}

func isAbsent[T any](v T) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}
