// Package cli implements the command-line interface for ozcomps.
//
// The cli package provides the Cobra-based command tree: "serve" runs the HTTP service and
// "fetch" performs a single fetch and prints the entries as text or as the same JSON envelope
// the service returns. Configuration comes from the config package and is overridden by flags.
package cli
