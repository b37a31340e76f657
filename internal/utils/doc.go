// Package utils exposes the configuration and logging plumbing shared by the
// command-line entrypoint.
//
// ConfigurationLoader layers defaults, embedded YAML, configuration files and
// environment variables through Viper; LoggerFactory builds zap loggers that
// write diagnostics to standard error.
package utils
