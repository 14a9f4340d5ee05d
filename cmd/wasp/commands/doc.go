// Package commands defines the wasp CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Create a local identity
//   - fingerprint    Print the identity fingerprint
//   - register       Generate pre-keys and publish your bundle to a relay
//   - rotate-spk     Rotate the signed pre-key and republish it
//   - start-session  Run X3DH against a peer's bundle, cache the pending session
//   - send           Encrypt and send a message
//   - recv           Fetch and decrypt queued messages
//
// # Implementation
//
// The root command's PersistentPreRunE builds a Wire (stores, services, relay
// client) before any subcommand runs, so handlers share one dependency graph
// with a single HTTP client and logger.
package commands
