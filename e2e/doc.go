//go:build e2e

// Package e2e drives a real browser against BASE_URL.
//
// The tests are kept out of the standard test run with a build tag. They
// need the playwright driver and browsers (`go run ./cmd/e2e run --install`
// or `PLAYWRIGHT_INSTALL=true`) and network access to the demo site:
//
//	go test -tags=e2e ./e2e/...
//
// Each test gets its own world, so each launches and closes its own
// browser. Artifacts go to a temporary directory.
package e2e
