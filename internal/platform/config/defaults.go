package config

const (
	defaultServerPort = 8080

	defaultDatabaseMaxConns = 25
	defaultDatabaseMinConns = 5

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultCORSMaxAge = 300
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "10s",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "30s",

		"log.level":  "info",
		"log.format": "json",

		"database.driver":                          DriverPostgres,
		"database.url":                             "",
		"database.max_conns":                       defaultDatabaseMaxConns,
		"database.min_conns":                       defaultDatabaseMinConns,
		"database.max_conn_lifetime":               "1h",
		"database.migrate":                         true,
		"database.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"database.circuit_breaker.timeout":         "30s",
		"database.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"cors.allowed_origins": []string{"*"},
		"cors.max_age":         defaultCORSMaxAge,

		"rate_limit.requests_per_second": 0,
		"rate_limit.burst_size":          0,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "project-task-api",
	}
}
