// Package catalog runs the catalog workflows of the admin client.
//
// The Coordinator owns one resource store per collection (categories,
// ingredients, foods) and exposes the operations a presentation surface
// calls. Every mutation goes to the remote store first and is followed by a
// full reload of the affected collection, so the cache always reflects what
// the store accepted.
//
// # Foods and ingredients
//
// Food writes always carry an empty ingredient list. Membership is changed
// only by AssignIngredients, which plans link/unlink calls with the
// reconcile package, fans them out, waits for all of them and reloads the
// foods. Calls that fail are returned in AssignResult; RetryAssign sends
// just those again.
//
// # Workflow state
//
// WorkflowState keeps per-entity locks, the last outcome of every operation
// and the entities being created. The Coordinator does not serialize by id:
// the HTTP handler takes WorkflowState.Acquire before calling it and answers
// 409 to a second submission for the same entity.
package catalog
