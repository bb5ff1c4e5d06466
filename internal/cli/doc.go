// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates cobra flags into the application's internal configuration.
//
// # Commands
//
//   - eval: evaluate a node tree on a mesh file or a primitive
//   - types: list the registered node types and their sockets
package cli
