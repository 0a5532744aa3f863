// Package flowbuilder provides a minimal public façade for embedding the
// message-flow editor without importing internal packages. It re-exports the
// flow types and exposes a Workspace that opens editor sessions backed by
// in-memory storage.
package flowbuilder
