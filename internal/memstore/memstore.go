// Package memstore provides the in-memory store implementations behind the
// storefront engine. Every store guards its own state with a mutex; state
// lives for the process lifetime and is never persisted.
package memstore
