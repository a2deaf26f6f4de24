// Package service contains the application use cases. It orchestrates the
// pure domain evaluators (adequacy, goal and achievement) against the record
// store interfaces defined in internal/store and delivers their results as
// events.
//
// The service layer depends on domain types and store interfaces, never on a
// specific store implementation. Errors leaving this package are wrapped in
// ServiceError; callers test the cause with errors.Is against the sentinels
// here, the domain sentinels, or the store sentinels.
package service
