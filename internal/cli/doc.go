// Package cli is the command line surface of buildgrid. It builds the cobra
// command tree, layers configuration through viper (defaults, the config
// file, BUILDGRID_* environment variables, then flags) and maps failures to
// process exit codes.
package cli
