package application

import (
	"context"

	"github.com/rs/zerolog"
)

type stepKind int

const (
	stepNotApplicable stepKind = iota
	stepResolved
	stepFailed
)

// stepResult is the tagged outcome of one pipeline stage: not applicable,
// resolved with a value, or a hard failure that ends the pipeline.
type stepResult[T any] struct {
	kind  stepKind
	value T
	err   error
}

func notApplicable[T any]() stepResult[T] {
	return stepResult[T]{kind: stepNotApplicable}
}

func resolved[T any](value T) stepResult[T] {
	return stepResult[T]{kind: stepResolved, value: value}
}

func hardFailure[T any](err error) stepResult[T] {
	return stepResult[T]{kind: stepFailed, err: err}
}

type stage[In, T any] struct {
	name string
	run  func(ctx context.Context, in In) stepResult[T]
}

// runStages tries each stage in order and stops at the first one that
// resolves or fails. found is false when every stage was not applicable.
func runStages[In, T any](ctx context.Context, logger zerolog.Logger, in In, stages []stage[In, T]) (value T, stageName string, found bool, err error) {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return value, s.name, false, err
		}

		result := s.run(ctx, in)
		switch result.kind {
		case stepResolved:
			logger.Debug().Str("stage", s.name).Msg("stage resolved")
			return result.value, s.name, true, nil
		case stepFailed:
			logger.Debug().Str("stage", s.name).Err(result.err).Msg("stage failed")
			return value, s.name, false, result.err
		default:
			logger.Debug().Str("stage", s.name).Msg("stage not applicable")
		}
	}

	return value, "", false, nil
}
