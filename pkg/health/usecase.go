package health

import (
	"context"
	"fmt"
)

// Checker reports whether one external dependency is reachable.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase answers readiness probes.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
}

type service struct {
	checkers []Checker
}

// NewService composes dependency checkers into one readiness check.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

// Ready fails on the first unhealthy dependency, naming it in the error.
func (s *service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}
