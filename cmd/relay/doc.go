// Package main runs the in-memory HTTP relay used during wasp development
// and tests. It stores published pre-key bundles and queues encrypted
// envelopes for recipients until they fetch and ack them. It is a dumb
// forwarder per spec.md §6.4: it never sees plaintext or private key
// material, only ciphertext and public bundles.
//
// HTTP API
//
//	PUT /v1/bundles/{userID}
//	    Publish a PreKeyBundle (identity keys, signed pre-key + signature,
//	    and optionally one one-time pre-key to seed the queue).
//
//	GET /v1/bundles/{userID}
//	    Return {userID}'s bundle, popping one queued one-time pre-key if any
//	    remain.
//
//	POST /v1/bundles/{userID}/opks
//	    Upload a batch of one-time pre-key publics ([]OneTimePreKeyPublic)
//	    to append to the queue.
//
//	POST /v1/bundles/{userID}/spk
//	    Replace the signed pre-key served from {userID}'s bundle.
//
//	POST /v1/envelopes/{userID}
//	    Enqueue an Envelope destined to {userID}, and push a notification to
//	    any open /v1/stream/{userID} websocket.
//
//	GET /v1/envelopes/{userID}?limit=N
//	    Return up to N queued envelopes for {userID}, oldest first. Omitted
//	    or non-positive limit returns the whole queue.
//
//	POST /v1/envelopes/{userID}/ack { "count": N }
//	    Drop the first N queued envelopes for {userID}.
//
//	GET /v1/canary/{userID}
//	    Return a short string for {userID} (the first 16 hex characters of
//	    its identity signing key from the published bundle), so a client
//	    can display something to eyeball alongside a safety-number warning.
//
//	GET /v1/stream/{userID}
//	    Upgrade to a websocket that receives the text message "new-envelope"
//	    whenever a new
//	    envelope is enqueued for {userID}, so a waiting recv doesn't have to
//	    poll.
//
// All state is held in memory and lost on process exit. The default listen
// address is :8080.
package main
