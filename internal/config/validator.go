package config

import (
	"fmt"

	"intake/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if err := validateStore(cfg.Store); err != nil {
		errors = append(errors, err)
	}

	if err := validateIdempotency(cfg.Processing.Idempotency); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	if cfg.Type == "" {
		return &ValidationError{
			Field:   "broker.type",
			Message: "broker type is required",
		}
	}

	switch cfg.Type {
	case "kafka":
		return validateKafka(cfg.Kafka)
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: kafka)", cfg.Type),
		}
	}
}

func validateKafka(cfg KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one broker address is required",
		}
	}

	for i, b := range cfg.Brokers {
		if b == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.GroupID == "" {
		return &ValidationError{
			Field:   "broker.kafka.group_id",
			Message: "consumer group id is required",
		}
	}

	return nil
}

func validateStore(cfg StoreConfig) error {
	switch cfg.Backend {
	case "", constants.StoreBackendMongoDB, constants.StoreBackendPostgres:
		return nil
	default:
		return &ValidationError{
			Field:   "store.backend",
			Message: fmt.Sprintf("unknown store backend: %s (supported: mongodb, postgres)", cfg.Backend),
		}
	}
}

func validateIdempotency(cfg IdempotencyConfig) error {
	if !cfg.Enabled {
		return nil
	}

	switch cfg.OnRedisError {
	case "", constants.OnRedisErrorProcess, constants.OnRedisErrorSkip:
	default:
		return &ValidationError{
			Field:   "processing.idempotency.on_redis_error",
			Message: fmt.Sprintf("unknown fallback: %s (supported: process, skip)", cfg.OnRedisError),
		}
	}

	if cfg.TTLSeconds < 0 {
		return &ValidationError{
			Field:   "processing.idempotency.ttl_seconds",
			Message: "ttl cannot be negative",
		}
	}

	return nil
}
