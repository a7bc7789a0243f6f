// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the Livepoll API.

The REST surface is deliberately small - creation and fetch are plain
request/response operations; everything live happens on the websocket (see
package realtime):

	POST /api/polls      -> CreatePoll (201 {pollId})
	GET  /api/polls/{id} -> GetPoll    (200 snapshot | 404)

Handlers are structs with their dependencies injected by constructor:

	pollHandler := handlers.NewPollHandler(st)

Validation errors return 400 with a fixed message; storage failures are
logged and surface as a generic 500. Responses never contain voter
fingerprints.
*/
package handlers
