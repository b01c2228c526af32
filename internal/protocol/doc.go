// Package protocol owns the GameController wire contract.
//
// Ownership boundary:
// - shared constants and enumerated codes
// - broadcast packet codec (RGme, version 11)
// - return packet codec (RGrt, version 2)
//
// All multi-byte integers are little-endian. Codec functions are pure: they
// allocate fresh values per call and never log.
package protocol
