// Package journal records every catalog workflow operation.
//
// Each entry carries the request id that was sent to the remote store, the
// operation and resource, the entity id, the outcome and the number of
// relation pairs that failed to apply. Entries live in a gorm table
// (sqlite by default, mysql optionally) and a day can be exported as a JSON
// array to object storage under <prefix>/<YYYY-MM-DD>.json.
//
// # Routes
//
//	GET    /journal?date=YYYY-MM-DD
//	POST   /journal/export?date=YYYY-MM-DD
//	GET    /journal/exports
//	GET    /journal/exports/{date}
//	DELETE /journal/exports/{date}
package journal
