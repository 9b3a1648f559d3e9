// Package errors provides structured, coded errors for minifiber.
//
// Every failure the runtime can surface to a caller carries a code that maps
// to a registered template:
//
//   - shape: a component returned something other than a single node
//   - reentrancy: render or update was called from inside a component
//   - host: a host-tree mutation primitive failed during commit
//   - scheduler: the idle-slice source was closed
//   - protocol: a wire frame could not be decoded
//   - config: the configuration file is missing or invalid
//
// # Usage
//
//	err := errors.New("E010").
//	    WithDetail("component Counter returned nil").
//	    WithSuggestion("Return exactly one node from every component")
//
//	fmt.Println(err.Format())
//
// Errors unwrap to the underlying cause, so errors.Is and errors.As from the
// standard library work across the boundary. Use Code to test for a
// registered code.
package errors
