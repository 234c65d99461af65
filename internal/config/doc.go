// Package config loads the application configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//	1. Default()
//	2. A YAML file: $PROFITPILOT_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. Environment variables with the PROFITPILOT_ prefix
//
// # Environment Variables
//
// Nested sections map to underscored names:
//
//	PROFITPILOT_SERVER_PORT=8080
//	PROFITPILOT_ANALYSIS_CATEGORY_STRATEGY=keyword
//	PROFITPILOT_INSIGHTS_API_KEY=...
//	PROFITPILOT_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,https://app.example.com
//
// # Validation
//
// Load normalizes case-insensitive enums, forces JSON logs and validates the
// result with go-playground/validator struct tags.
//
// # Testing
//
// Tests and the CLI use Default() directly.
package config
