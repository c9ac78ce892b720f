// Package config loads runtime configuration for the ExpenseKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Dotenv files (-e / -env, or .env and .env.local) and EXPENSEKEEPER_*
//     environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL, e.g. http://127.0.0.1:3000/api
//	-d string   data directory for the local database and device identity
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://127.0.0.1:3000/api",
//	  "data_dir": "/home/me/.config/expensekeeper",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "biometrics_disabled": false
//	}
//
// # Environment
//
//	EXPENSEKEEPER_API_BASE_URL, EXPENSEKEEPER_DATA_DIR,
//	EXPENSEKEEPER_REQUEST_TIMEOUT ("10s"), EXPENSEKEEPER_LOG_LEVEL,
//	EXPENSEKEEPER_LOG_FORMAT, EXPENSEKEEPER_BIOMETRICS_DISABLED
package config
