// Package cli constructs the git-prompt-info command-line interface. It wires
// the Cobra root command, the layered Viper configuration and the zap logger
// to the prompt service, and exposes Execute for the program entrypoint.
package cli
