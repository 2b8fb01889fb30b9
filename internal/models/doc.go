// Package models defines the core domain models for the daily-notes service.
//
// # Models
//
//   - User: a registered account; holds the bcrypt password hash and the
//     current opaque session token (empty until the first login).
//   - Note: one free-text note per (user, date). The (OwnerID, Date) pair is
//     unique; the storage layer enforces this.
//   - NamedNote: a free-text note keyed by a per-user unique name instead of
//     a date.
//   - Snapshot: the complete point-in-time dataset, used as a transfer object
//     for backup and restore. It is never persisted as a queryable entity.
//
// # Design Principles
//
// 1. **Flat structs**: relationships use owner IDs, not pointers, so models
// marshal cleanly to JSON for snapshots.
// 2. **Dates are strings**: notes carry their date as an ISO "YYYY-MM-DD"
// string, validated at the boundary via ValidateDate. This keeps the snapshot
// encoding human-diffable and avoids timezone ambiguity.
package models
