package resilience

import (
	"context"

	"go.uber.org/zap"

	"fieldnotes/pkg/logger"
)

// Service обеспечивает отказоустойчивость вызовов одного удаленного сервиса.
type Service struct {
	serviceName    string
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// NewService создает новую обертку отказоустойчивости для сервиса.
func NewService(serviceName string, retryCfg RetryConfig) *Service {
	return &Service{
		serviceName:    serviceName,
		circuitBreaker: NewCircuitBreaker(serviceName, DefaultCircuitBreakerConfig()),
		retry:          NewRetry(serviceName, retryCfg),
	}
}

// Execute выполняет операцию с повторами под защитой Circuit Breaker.
func (s *Service) Execute(ctx context.Context, operationName string, operation func() error) error {
	log := logger.Log(ctx).With(
		zap.String("service", s.serviceName),
		zap.String("operation", operationName),
	)
	log.Debug(ctx, "Executing operation with resilience")

	return s.circuitBreaker.Execute(ctx, func() error {
		return s.retry.Execute(ctx, operation)
	})
}

// ExecuteWithResult выполняет операцию с отказоустойчивостью и возвращает результат.
func ExecuteWithResult[T any](
	ctx context.Context,
	s *Service,
	operationName string,
	operation func() (T, error),
) (T, error) {
	var result T

	err := s.Execute(ctx, operationName, func() error {
		var opErr error
		result, opErr = operation()
		if opErr != nil {
			logger.Log(ctx).Warn(ctx, "Operation failed",
				zap.String("service", s.serviceName),
				zap.String("operation", operationName),
				zap.Error(opErr))
			return opErr
		}
		return nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
