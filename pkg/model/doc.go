// Package model defines the database models for the forms API.
//
// This package contains GORM models that map to the forms database schema.
// The schema is carried over from the PHP system this service replaced, so
// column names and types follow the legacy layout.
//
// # Core Models
//
//   - Request: One row per accepted form submission
//   - GrDetails: Grant request detail fields, keyed by request
//   - GrPerson: People referenced by a grant request
//   - GrPersonnel: Bridge rows linking people to a request by link type
//   - GrSubaward: Subaward institutions with optional person references
//   - Requester: Directory of known submitters with their current token
//   - AppEmail: Notification recipients per request type
//
// # Legacy Conventions
//
// Date columns hold normalized Y-m-d text rather than native dates, and
// yes/no flags are 0/1 smallints. Both conventions are preserved so the
// existing data remains readable.
package model
