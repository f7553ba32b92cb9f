// Package protocol defines the envelope every frame travels in, the closed
// set of request payloads clients may send and the reply/push shapes the
// server writes back.
//
// Requests carry a client-assigned seq that the reply echoes. Pushes that
// were not asked for use seq 0 and are told apart only by op.
package protocol
