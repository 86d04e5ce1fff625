// Package relay implements the in-memory tenant registry and broadcast
// dispatcher.
//
// The Registry keeps per-tenant connection sets behind per-tenant mutexes,
// so broadcasts to different tenants never contend. The Dispatcher snapshots
// a tenant's set, fans the serialized event out through per-connection
// writer goroutines, and prunes any connection whose send fails. Nothing is
// persisted; a viewer that reconnects resynchronizes from the job API.
package relay
