// Package database opens the single database connection of the webhook
// service on top of Bun. Settings come from the environment, a .env file or
// YAML; Open parses DATABASE_URL, connects and pings before returning.
package database
