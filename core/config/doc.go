// Package config centralizes application configuration.
//
// Configuration is assembled from three layers, lowest precedence first:
//
//  1. Struct tag defaults ('default:' tags on the partial config structs)
//  2. A .env file in the working directory (loaded via godotenv)
//  3. Environment variables (DATABASE_HOST, LOADER_TX_TIMEOUT_SECONDS, ...)
//
// Each subsystem owns its partial configuration (database.Config,
// logger.Config, storage.Config); this package only aggregates them and
// binds defaults recursively through reflection.
package config
