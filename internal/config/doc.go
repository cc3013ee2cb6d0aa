// Package config loads bid comparison settings from defaults, an optional
// YAML file, an optional .env file and the environment.
//
// # Configuration Sources
//
// Sources are applied in this order, later ones winning:
//
//  1. Default values
//  2. YAML file (BIDCOMPARE_CONFIG_FILE, or config.yaml / configs/config.yaml)
//  3. .env file in the working directory
//  4. Environment variables
//
// # Environment Variables
//
// All environment variables use the BIDCOMPARE_ prefix followed by the
// section and field name:
//
//	BIDCOMPARE_SERVER_PORT=8080
//	BIDCOMPARE_LOGGING_LEVEL=debug
//	BIDCOMPARE_COMPARE_MAX_CONCURRENCY=8
//	BIDCOMPARE_SECURITY_ALLOWED_ORIGINS=https://a.example,https://b.example
//
// The loaded configuration is validated with struct tags before use.
package config
