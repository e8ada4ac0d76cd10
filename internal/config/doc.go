// Package config loads and validates the schoolcal YAML configuration.
package config
