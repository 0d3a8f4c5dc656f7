// Package store provides the typed in-memory cache of one catalog collection.
//
// A Store holds Categories, Ingredients or Foods as last seen on the remote
// store. It never invents data: the cache changes only through Load (full
// replacement after a successful fetch) and through Upsert/Remove applied
// after a confirmed remote mutation.
//
// # Guarantees
//
//   - Load swaps the collection and its id index under one lock, so readers
//     never see a half-replaced collection.
//   - A failed Load leaves the previous collection in place (stale but valid).
//   - Entities without an id are never cached.
//   - Upsert keeps insertion order for new entries and position for updates.
//
// The store does not push notifications. Callers read Snapshot after the
// mutating call returns.
package store
