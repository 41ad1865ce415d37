// Package daemon runs the subhook HTTP service: a flock-guarded single
// instance hosting the /extract endpoint that triggers the external
// subtitle-extraction script.
package daemon
