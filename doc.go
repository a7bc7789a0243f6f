// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Livepoll API server.

Livepoll is a real-time polling service: create a multiple-choice poll,
share the link, and every viewer sees tallies update live as votes arrive
over a websocket. Each network origin gets one vote per poll.

# Starting the Server

The server reads configuration from the environment (a .env file works) or
CLI flags:

	FINGERPRINT_SALT=... go run main.go

Or with flags:

	go run main.go -p 5000 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - FINGERPRINT_SALT (-fingerprint-salt): Secret for voter fingerprint HMAC

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): sqlite file path (default: livepoll.db) or postgres URL
  - CLIENT_URL (-client-origin): Allowed CORS/websocket origin

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (poll create/fetch)
  - realtime: websocket hub, subscriptions, vote coordination, broadcast
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response/event types
  - store: Poll store with the atomic vote transaction
  - fingerprint: Voter deduplication digests
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
