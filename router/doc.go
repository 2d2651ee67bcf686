// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the election API.

	mux := router.NewRouter(l, broker, cfg)

# Endpoints

Health:

	GET /health

Administrator (X-Caller-Address must be the admin):

	POST /election/voters           - Register voter, returns caller_key
	POST /election/proposals/start  - Open proposal registration
	POST /election/proposals/end    - Close proposal registration
	POST /election/voting/start     - Open voting
	POST /election/voting/end       - Close voting
	POST /election/tally            - Count votes
	POST /election/reset            - Start over

Voters:

	POST /election/proposals - Submit proposal
	POST /election/votes     - Cast vote

Queries (public):

	GET /election                      - Status snapshot
	GET /election/winner               - Winning proposal (tallied only)
	GET /election/votes/total          - Number of votes cast
	GET /election/proposals            - All proposals
	GET /election/proposals/{id}       - One proposal
	GET /election/voters               - Registered addresses
	GET /election/voters/{address}     - One voter
	GET /election/admin/{address}      - Is address the admin
	GET /election/registered/{address} - Is address registered

Events:

	GET /election/events?after=N - Retained history
	GET /election/events/stream  - Server-Sent Events
*/
package router
