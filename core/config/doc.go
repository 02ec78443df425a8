// Package config provides configuration management for the sync service.
//
// Configuration is loaded from environment variables, optionally seeded
// from a .env file. Defaults are declared as struct tags on each section's
// Config type and registered in viper by reflection, so every key is
// overridable via the environment using SECTION_KEY naming
// (e.g. SNIPE_URL, NETBOX_TOKEN, SYNC_ALLOW_UPDATES, LOG_LEVEL).
//
// Each section's Config struct lives with the package it configures; this
// package only composes them into one root Config.
package config
