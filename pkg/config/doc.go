// Package config provides configuration management for the Ollama gateway.
//
// Configuration is read from an optional YAML file, completed with defaults,
// overridden from the environment and validated before use.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("ollamagw.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("ollamagw.yaml")
//
// An empty path loads the built-in defaults.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention OLLAMAGW_SECTION_FIELD:
//
//   - OLLAMAGW_PROXY_LISTEN_ADDRESS overrides proxy.listen_address
//   - OLLAMAGW_UPSTREAM_BASE_URL overrides upstream.base_url
//   - OLLAMAGW_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// OLLAMA_BASE_URL is also accepted for upstream.base_url.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Active Configuration
//
// The run command installs the effective configuration with Install and
// replaces it on SIGHUP through Reload, which keeps the previous one when
// the file no longer loads or validates:
//
//	cfg, err := config.Reload(path, applyFlags)
//	if err != nil {
//	    logger.Error("configuration reload failed", "error", err)
//	}
//
// Everything else receives its configuration explicitly.
//
// # Example Configuration
//
//	proxy:
//	  listen_address: "0.0.0.0:8080"
//	  path_prefix: "/ollama"
//
//	upstream:
//	  base_url: "http://localhost:11434"
//	  connect_timeout: 30s
//	  request_timeout: 60s
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
