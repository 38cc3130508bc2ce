// Package main hosts the moviepipe CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the structured
// logger and hands off to the internal pipeline. Commands only translate
// flags into configuration overrides and render results.
package main
