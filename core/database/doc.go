// Package database opens the journal database and inspects its schema.
//
// It wraps GORM and selects the dialect from configuration: sqlite (the
// default, a local file) or mysql for a shared journal.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition, so the
// journal can verify its table after migration on both dialects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Journal disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "catalog_journal", []string{"request_id"})
package database
