// Package logger provides the structured logging layer for the service.
//
// It wraps zap behind a small API:
//
//   - Init(cfg) configures the process-wide singleton (call once from main).
//   - L() returns the singleton; From(ctx) returns the request-scoped logger
//     injected by the logging middleware, falling back to the singleton.
//   - Typed field helpers (UserID, Provider, Op, ...) keep field names
//     consistent across the codebase.
//
// Expected auth failures (bad credentials, expired state, wrong 2FA code)
// are logged at Warn or below without stack traces; only unexpected failures
// (store unreachable, SMTP down) log at Error.
package logger
