// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Guarded operation names and flood-guard tuning.
  - Security: Token issuer and bearer scheme.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "kaiwa-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Flood Guard (in-process, per IP)

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP before any
	// per-operation budget is consulted.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the flood guard.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Guarded Operations (shared fixed-window budgets)

const (
	// OperationLogin is the limiter namespace for authentication attempts.
	OperationLogin = "login"

	// OperationMessageCreate is the limiter namespace for posting messages.
	OperationMessageCreate = "message_create"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in issued tokens.
	AuthIssuer = "kaiwa.app"

	// BearerScheme is the expected Authorization header scheme.
	BearerScheme = "bearer"

	// CredentialsMessage is the single client-visible message for every
	// identity-resolution failure. One message for all failure modes keeps
	// the endpoint from acting as a validation oracle.
	CredentialsMessage = "Could not validate credentials"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
)

// # Redis Key Taxonomy

const (
	// RedisPrefixIdentity prefixes cached identity snapshots ("user:<id>").
	RedisPrefixIdentity = "user:"

	// RedisPrefixRateLimit prefixes fixed-window counters
	// ("ratelimit:<operation>:<user:id|ip:addr>").
	RedisPrefixRateLimit = "ratelimit:"
)
