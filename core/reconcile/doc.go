// Package reconcile turns a desired ingredient set for one food into the
// minimal list of link/unlink calls and applies them against the remote store.
//
// # Workflow
//
// Reconciliation is split in two steps:
//
//  1. BuildPlan computes the set difference between current and desired
//     membership. It is pure and never touches the network.
//  2. ApplyPlan fans the actions out concurrently and waits for all of them
//     to settle. One failing action does not cancel the others.
//
// The remote store has no batch endpoint, so a plan is not atomic: a Result
// lists which actions were applied and which failed. Failed actions are not
// rolled back or retried automatically; callers reload the food to learn the
// true membership.
//
// # Usage
//
//	plan, err := reconcile.BuildPlan(food.ID, current, desired)
//	if err != nil {
//	    return err
//	}
//	result := reconcile.ApplyPlan(ctx, client, plan, reconcile.ApplyOptions{Concurrency: 8})
//	if !result.OK() {
//	    log.Warn("partial assignment", zap.Any("failed", result.FailedPairs()))
//	}
package reconcile
