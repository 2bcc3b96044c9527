// Package repository provides typed table access on Bun for the webhook
// tables: CRUD, filtering, pagination, dialect-aware upserts and transactions.
package repository
