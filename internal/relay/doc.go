// Package relay provides an HTTP implementation of the domain.RelayClient
// interface used by wasp.
//
// The relay acts as a store-and-forward service for encrypted envelopes and
// pre-key bundles between peers. This package offers a concrete HTTP client
// for interacting with such a relay server; cmd/relay is a reference server
// implementation.
//
// Supported operations include:
//   - Publishing our pre-key bundle to the relay, and rotating its signed
//     pre-key or replenishing its one-time pre-keys.
//   - Fetching a peer's pre-key bundle.
//   - Sending encrypted envelopes to a peer via the relay.
//   - Fetching and acknowledging pending envelopes for a user.
//   - Fetching a short canary string for out-of-band identity verification.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as errors with the HTTP method,
// request path, and status text to aid diagnostics.
package relay
