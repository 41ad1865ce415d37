// Package config loads and validates the subhook configuration file.
//
// Configuration is TOML with three sections: [server] for the HTTP bind
// address and optional auth token, [extractor] for the extraction script
// location, and [logging] for log output settings. Values pass through
// defaults, normalization (path expansion, LISTEN_PORT override), and
// validation before use.
package config
