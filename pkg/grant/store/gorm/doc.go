// Package gorm provides GORM-based implementations of the store
// interfaces defined in the parent store package.
//
// This package contains concrete implementations that use GORM for
// database operations. The interfaces they implement are defined in
// pkg/grant/store.
package gorm
