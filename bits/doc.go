// Package bits provides the bit-field primitives used by machine
// definitions: masking, field selection, and sign extension.
package bits
