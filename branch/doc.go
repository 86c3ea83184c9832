// Package branch resolves the tenant ("branch") a new record is created under.
// A resolver prefers an explicit override, then per-call sources such as the
// request context; the process-wide session is only an opt-in fallback.
package branch
