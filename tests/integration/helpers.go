package integration

import (
	"intake/internal/config"
	"intake/internal/constants"
	"intake/internal/logger"
)

const containerStartupTimeout = 60

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestIdempotencyConfig() config.IdempotencyConfig {
	return config.IdempotencyConfig{
		Enabled:      true,
		TTLSeconds:   300,
		OnRedisError: constants.OnRedisErrorProcess,
	}
}

func createTestKafkaConfig(brokers []string) config.BrokerConfig {
	return config.BrokerConfig{
		Type: "kafka",
		Kafka: config.KafkaConfig{
			Brokers: brokers,
			GroupID: "integration-test",
			Retry: config.RetryConfig{
				MaxAttempts: 1,
			},
		},
	}
}
