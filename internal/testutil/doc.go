// Package testutil holds fixtures shared by the engine, harness and cli
// tests: a throwaway certificate log and a small set of canonical steps.
package testutil
