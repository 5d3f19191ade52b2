// Package statsview serves live runtime statistics (heap, goroutines, GC
// pauses) next to a running shell. It is only built with the statsview tag:
//
//	go build -tags statsview ./cmd/gameshell
//
// Without the tag Available reports false and Launch does nothing. After
// launch the charts are served at <addr>/debug/statsview and the standard
// pprof handlers at <addr>/debug/pprof/.
package statsview

// DefaultAddr is used when no address is configured.
const DefaultAddr = "localhost:12600"

// Path is where the charts are served.
const Path = "/debug/statsview"
