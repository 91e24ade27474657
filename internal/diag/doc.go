// Package diag defines the fault model shared by every semantic pass.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     name resolution, IR lowering and type inference.
//   - Offer light-weight utilities (Reporter, Bag) so passes can emit faults
//     without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Note, Debug, Warning or Error (severity.go).
//   - Code – compact numeric identifier acting as the fault kind (codes.go).
//   - Message – short human oriented text.
//   - Primary span – the source.Span the fault points at.
//   - Notes – secondary spans, e.g. the original declaration of a
//     ScopeOverride fault.
//
// Faults are accumulated, never thrown: a pass always completes structurally
// and the caller decides whether to stop based on a fatal Severity threshold
// (Severity.IsFatal, Bag.HasFatal).
//
// Package diag performs no IO. Rendering lives in internal/diagfmt.
package diag
