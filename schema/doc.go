// Package schema describes the tables of the webhook service: the Bun models,
// the registry that orders them and the immutable table/column descriptor
// attached to the query interface.
package schema
