// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/notify"
)

func NewRouter(l *ledger.Ledger, broker *notify.Broker, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(l, cfg)
	votingHandler := handlers.NewVotingHandler(l, cfg)
	resultsHandler := handlers.NewResultsHandler(l, cfg)
	eventsHandler := handlers.NewEventsHandler(l, broker)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Administrator operations
	mux.HandleFunc("POST /election/voters", middleware.WithLogging(electionHandler.RegisterVoter))
	mux.HandleFunc("POST /election/proposals/start", middleware.WithLogging(electionHandler.StartProposalRegistration))
	mux.HandleFunc("POST /election/proposals/end", middleware.WithLogging(electionHandler.EndProposalRegistration))
	mux.HandleFunc("POST /election/voting/start", middleware.WithLogging(electionHandler.StartVotingSession))
	mux.HandleFunc("POST /election/voting/end", middleware.WithLogging(electionHandler.EndVotingSession))
	mux.HandleFunc("POST /election/tally", middleware.WithLogging(electionHandler.TallyVotes))
	mux.HandleFunc("POST /election/reset", middleware.WithLogging(electionHandler.ResetVoting))

	// Voter operations
	mux.HandleFunc("POST /election/proposals", middleware.WithLogging(votingHandler.SubmitProposal))
	mux.HandleFunc("POST /election/votes", middleware.WithLogging(votingHandler.Vote))

	// Queries (public)
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetStatus))
	mux.HandleFunc("GET /election/winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /election/votes/total", middleware.WithLogging(resultsHandler.GetTotalVotes))
	mux.HandleFunc("GET /election/proposals", middleware.WithLogging(resultsHandler.GetProposals))
	mux.HandleFunc("GET /election/proposals/{id}", middleware.WithLogging(resultsHandler.GetProposal))
	mux.HandleFunc("GET /election/voters", middleware.WithLogging(resultsHandler.GetVoters))
	mux.HandleFunc("GET /election/voters/{address}", middleware.WithLogging(resultsHandler.GetVoter))
	mux.HandleFunc("GET /election/admin/{address}", middleware.WithLogging(resultsHandler.CheckAdmin))
	mux.HandleFunc("GET /election/registered/{address}", middleware.WithLogging(resultsHandler.CheckRegistered))

	// Events
	mux.HandleFunc("GET /election/events", middleware.WithLogging(eventsHandler.GetEvents))
	mux.HandleFunc("GET /election/events/stream", middleware.WithLogging(eventsHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
