// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs a single administrator-driven election: voters are
registered, submit proposals, vote once each, and the admin tallies.

# Starting the Server

	ADMIN_ADDRESS=0xadmin CALLER_KEY_SALT=secret DATABASE_URL=election.db go run .

Or with flags:

	go run . -p 3318 -t bolt -d election.bolt -admin 0xadmin -caller-salt secret

A .env file in the working directory and a YAML file given with -c (or
ELECTION_CONFIG) are read as well. Flags win over the environment, which
wins over the file.

# Configuration

Required settings:

  - ADMIN_ADDRESS (-admin): the administrator identity
  - CALLER_KEY_SALT (-caller-salt): secret for caller key HMAC
  - DATABASE_URL (-d): journal location, unless DATABASE_TYPE is memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres, bolt or memory (default: sqlite)
  - AMQP_URL (-amqp): RabbitMQ URL; events are relayed when set
  - AMQP_EXCHANGE (-amqp-exchange): topic exchange (default: election.events)
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)

The admin's caller key is printed at startup.

# Architecture

  - election: the workflow state machine
  - ledger: journals every command before applying it; replays on start
  - store: journal backends (SQL, bbolt, memory)
  - notify: event broker and AMQP relay
  - handlers, router, middleware, models: HTTP API
  - auth: caller keys
  - db: SQL connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
