// Package config loads odkshell configuration from a file and the environment.
//
// Files are TOML (.toml), YAML (.yaml, .yml) or JSON (.json):
//
//	log_level = "debug"
//
//	[runner]
//	python_candidates = ["python3", "python"]
//	script_path = "/opt/odkshell/runner.py"
//	timeout = "10m"
//
//	[ollama]
//	path = "/usr/local/bin/ollama"
//
// Environment variables with the ODKSHELL_ prefix override file values.
// Watch reloads the file whenever it changes on disk.
package config
