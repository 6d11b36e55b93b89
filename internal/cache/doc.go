// Package cache provides the explicit memo registry behind the position
// service.
//
// A Registry owns any number of named Tables. Each Table memoizes one
// function: the key is the canonical encoding of the call's scalar
// arguments (see chart.QueryKey) and the value is whatever the function
// returned. Registry.Clear drops every entry in every table at once and is
// called whenever settings or locale change, since cached names and
// positions may then be stale.
//
// # Concurrency
//
// Tables are safe for concurrent use. Population of a missing key is
// de-duplicated with singleflight, so concurrent misses on the same key run
// the fill function once. Values are never mutated after they are stored.
//
// # Persistent tier
//
// A Registry may be given a Tier that backs tables which opt in with
// WithCodec. SQLiteTier stores encoded values in a SQLite file:
//
//   - WAL mode, synchronous=NORMAL, busy_timeout=5000
//   - one memo row per (table, key), tagged with a generation id
//   - Clear rotates the generation (a fresh UUID) so other processes sharing
//     the file stop seeing entries written before the clear
package cache
