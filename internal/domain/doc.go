// Package domain defines the tenant-scoped event model relayed from the
// job runner to connected viewers. Events are never stored; the relay
// normalizes and forwards them verbatim.
package domain
