// Package config provides configuration structures and utilities for
// sitecrawl: crawl budgets, HTTP settings, report preferences and the
// optional per-site YAML file.
package config
