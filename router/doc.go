// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Livepoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, hub, cfg)

# Endpoints

Health:

	GET /health

Polls (request/response):

	POST /api/polls      - Create poll
	GET  /api/polls/{id} - Fetch current snapshot

Realtime:

	GET /ws - WebSocket upgrade; join_poll and submit_vote events

# Wiring

The router is handed the already-constructed service handles (poll store,
hub) and threads them into the handlers and the realtime server; no package
holds ambient global state.
*/
package router
