// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: Journal backend, sqlite, postgres, bolt or memory (default: sqlite)
  - DatabaseURL: Connection string or bolt file path (required unless memory)
  - AdminAddress: Election administrator identity (required)
  - CallerKeySalt: Secret for caller key HMAC (required)
  - AMQPURL: RabbitMQ URL; enables the event relay when set
  - AMQPExchange: Exchange for relayed events (default: election.events)
  - LogLevel: debug, info, warn or error (default: info)

# Sources

Values are resolved in this order, first match wins:

	CLI flag → environment → config file → default

A .env file in the working directory is loaded into the environment first
without overriding variables that are already set. The config file is YAML and
is selected with -c or ELECTION_CONFIG:

	port: 3318
	database:
	  type: bolt
	  url: /var/lib/election/journal.db
	admin:
	  address: "0xadmin"

Environment names are the config keys upper-cased with dots replaced by
underscores (database.url → DATABASE_URL, caller.key_salt → CALLER_KEY_SALT).

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-admin         Administrator address
	-caller-salt   Caller key salt
	-amqp          RabbitMQ URL
	-amqp-exchange RabbitMQ exchange
	-log-level     Log level
	-c             Config file
*/
package cliparse
