// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves and authenticates caller identities at the HTTP boundary.

# Addresses

An identity is an opaque address string. NormalizeAddress trims and
lower-cases it so the election core only ever sees canonical addresses.

# Caller Keys

Caller keys use HMAC-SHA256 over the normalized address:

	key := auth.GenerateCallerKey(address, salt)
	err := auth.ValidateCallerKey(address, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
no key storage is needed. The administrator's key is derived from the
configured admin address; a voter's key is returned when the administrator
registers them.

# Requests

Mutating requests carry X-Caller-Address and X-Caller-Key:

	caller, err := auth.CallerFromRequest(r, cfg.CallerKeySalt)

The election package then decides whether that caller may perform the
operation.
*/
package auth
