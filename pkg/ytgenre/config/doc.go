// Package config loads the optional ytgenre configuration file and resolves
// default paths for the config file and the cached OAuth token.
package config
