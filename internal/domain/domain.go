// Package domain contains the core data types for the bed tags service:
// the BedTag entity, the validation error collector, and the sentinel errors
// shared by every other internal package (validator, repo, service, handler).
package domain
