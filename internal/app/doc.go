// Package app contains the core application logic. It defines the main App
// struct, its configuration and the plan pipeline, decoupled from any
// specific entrypoint like a CLI.
//
// A run loads the descriptor tree, resolves internal references, orders the
// targets, resolves external dependencies and synthesizes build steps. The
// result is a Plan, rendered as text, YAML or JSON.
package app
