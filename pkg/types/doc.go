// Package types provides the shared domain model of the parceltrack client:
// roles and sessions, notifications, parcels and the references between them.
//
// Types here are referenced by the stores, the event router, the REST client
// and the lifecycle client, so the package depends only on the standard
// library to avoid import cycles.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
