// Package config holds the qnn run configuration: defaults, QNN_ environment
// overrides, optional YAML file and validation.
package config
