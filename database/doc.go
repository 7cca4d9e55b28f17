// Package database connects vdisk to a download counter backend.
//
// # Supported Backends
//
//   - SQLite: single-node deployments, using modernc.org/sqlite
//   - PostgreSQL: shared deployments, using a pgx connection pool
//   - Redis: counters kept in hashes, using go-redis
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "vdisk.db",
//	    Tables: vdisk.Tables{Downloads: "vdisk_downloads"},
//	}
//
//	db, err := database.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	svc, err := vdisk.NewService(storage, vdisk.ServiceConfig{Counter: db.GetCounter()})
//
// Open connects, pings, runs migrations and validates the schema. Connect only
// connects, leaving the remaining steps to the caller.
package database
