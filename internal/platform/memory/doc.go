// Package memory provides an in-process implementation of the store
// interfaces. It stands in for the external record store when the server
// runs standalone and in tests; nothing is persisted across restarts.
package memory
