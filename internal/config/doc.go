// Package config loads, normalizes, and validates moviepipe configuration.
//
// Configuration lives in a TOML file (default ~/.config/moviepipe/config.toml,
// falling back to ./moviepipe.toml). Values missing from the file are taken
// from Default, then secrets are resolved from the environment: OMDB_API_KEY
// and MOVIEPIPE_DSN, optionally supplied through a .env file. Relative input
// paths are expanded against the working directory so the pipeline can be
// run from anywhere.
package config
