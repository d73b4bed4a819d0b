// Package history persists assessment reports across runs so drift between
// a target's consecutive assessments can be surfaced.
//
// The Store interface has two implementations: a SQLite backend for real
// deployments and an in-memory backend for tests. Reports are stored as
// immutable rows; nothing is ever updated in place.
//
//	store, err := history.NewSQLiteStore(&history.SQLiteConfig{Path: "data/history.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	store.Save(ctx, report)
//	drift, err := history.Detect(ctx, store, "billing-service")
package history
