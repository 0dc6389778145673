// Package engine checks batches of certificate steps.
//
// Steps are enqueued in file order, then Run checks them and returns one
// Outcome per step in that same order.
//
// ARCHITECTURE:
//
// Per-Step Stores:
// ir.Store is not safe for concurrent use, so every step is built and
// checked against its own store. Steps share nothing, which lets Run check
// up to Workers of them at once.
//
// Run Flow:
// 1. Run closes the queue and drains it
// 2. Each step is stamped with Clock.Next() in enqueue order
// 3. Steps are checked in parallel (errgroup, bounded by Workers)
// 4. If a store is configured, outcomes are written by a single writer in
//    seq order
//
// Per-step failures (malformed certificates, bad formulas, panics) are
// recorded in the Outcome and never abort the batch. Context cancellation
// does.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Outcomes are stamped with a monotonic seq from Clock.Next(), never with
// wall-clock time. Completion order of parallel checks does not affect seq.
package engine
