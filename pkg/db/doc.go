// Package db opens the PostgreSQL connection used by the server and the CLI.
//
//	database, err := db.Connect(db.Config{Cipher: cipher})
//
// The optional cipher is attached to the GORM context so that
// model.APIKey can seal and open key material in its hooks.
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string (required)
//   - AIACT_LOG_LEVEL: set to "debug" for SQL query logging
package db
