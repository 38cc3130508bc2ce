// Package preflight provides readiness checks for the inputs, directories and
// services a pipeline run depends on.
//
// The CLI "moviepipe preflight" command renders these results. The OMDb probe
// is opt-in because every request counts against the daily quota.
package preflight
