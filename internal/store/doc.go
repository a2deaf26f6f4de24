// Package store defines the interfaces through which the tracker reads the
// external record store and persists goal state. Implementations own the
// storage format; the evaluators in internal/domain never see them.
package store
