// Package cec defines the CEC message model: logical and physical
// addresses, opcodes, the addressed command Message, parameter builders
// for common payload shapes, and the byte-level frame codec.
//
// A Message is an immutable value. Constructors copy the parameter
// bytes they are given; callers must not modify Params after
// construction.
//
// The opcode table here covers the operations the feature-action
// framework and its bundled actions use. It is deliberately not the
// full CEC table.
package cec
