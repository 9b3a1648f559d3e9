// Package wire is the binary protocol between a remote host and the
// process that mirrors its tree.
//
// Every message is a frame:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Patches frames carry a sequence number and a list of host mutations
// addressed by node ID. Event frames travel the other way and name a
// target node, an event and an opaque payload. Integers are varints and
// strings are varint length-prefixed.
//
// Decoders check every length prefix against the remaining input and the
// package limits before allocating.
package wire
