// Package database provides the MySQL connection layer and a schema inspector.
//
// Connect builds a pooled GORM connection from configuration, with connection
// and per-statement timeouts encoded in the DSN.
//
// The inspector (TableColumns, VerifyTables) checks that the live database
// carries the tables and columns the loader was built against. The loader
// treats a mismatch as fatal: running a load against a half-migrated store
// would abort mid-transaction at best and write to the wrong shape at worst.
package database
