// Package config resolves the process-wide configuration snapshot.
//
// Resolution happens once, at startup, in three layers with later layers
// winning on overlapping keys:
//
//  1. built-in defaults
//  2. a single optional configuration file: config.json, index.json,
//     index.yaml or index.yml in the working directory
//  3. the INDEX_DEBUG and INDEX_ENV environment variables, with a .env
//     file consulted for variables the process environment leaves unset
//
// Keys are case-insensitive. Every read and write folds the key to
// uppercase, so GetInt("port") and GetInt("PORT") are the same lookup.
// Mapping values merge key by key into an existing sub-tree; scalars and
// sequences replace the previous value wholesale.
//
// A file may contain a block named after an environment. While that
// environment is active the block shadows the root:
//
//	host: "127.0.0.1"
//	production:
//	  host: "0.0.0.0"
//
// resolves host to "0.0.0.0" when INDEX_ENV=production.
//
// The snapshot is frozen before New returns: mutating methods fail with
// ErrFrozen from then on, and reads are safe from any goroutine without
// synchronization.
package config
