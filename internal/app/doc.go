// Package app contains the core application logic. It wires the node
// registry, the HCL tree loader and the geometry modifier into one
// evaluation run, decoupled from any specific entrypoint like a CLI.
package app
