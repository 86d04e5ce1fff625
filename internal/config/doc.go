// Package config provides environment-based configuration.
//
// Loads from a .env file (godotenv) when present, then from process
// environment with defaults. Both relay secrets are optional: an unset
// secret disables that auth check entirely, which is intended for local
// development only.
package config
