// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded (via godotenv) before the
environment is consulted.

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: sqlite file path or PostgreSQL connection string
  - DatabaseType: "sqlite" (default) or "postgres"
  - FingerprintSalt: Secret for voter fingerprint HMAC (required)
  - ClientOrigin: Allowed CORS origin (optional; empty echoes the request origin)

# CLI Flags

	-p                 Server port
	-d                 Database URL or file path
	-t                 Database type (sqlite or postgres)
	-fingerprint-salt  Voter fingerprint salt
	-client-origin     Allowed CORS origin

# Environment Variables

Flags fall back to environment variables:

	PORT             -> -p
	DATABASE_URL     -> -d
	DATABASE_TYPE    -> -t
	FINGERPRINT_SALT -> -fingerprint-salt
	CLIENT_URL       -> -client-origin

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - FINGERPRINT_SALT must be provided
  - DATABASE_URL must be provided when DATABASE_TYPE is postgres
    (sqlite defaults to ./livepoll.db)
*/
package cliparse
