package storage

import "fmt"

// Store kinds accepted by Open.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreLevelDB  = "leveldb"
)

// Open returns the engine for kind. dsn is a database source name for the
// SQL kinds and a directory for leveldb. The SQL drivers must be linked in
// by the caller.
func Open(kind, dsn string) (Engine, error) {
	switch kind {
	case StoreSQLite:
		return OpenSQLEngine("sqlite3", dsn)
	case StorePostgres:
		return OpenSQLEngine("postgres", dsn)
	case StoreLevelDB:
		return OpenLevelEngine(dsn)
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
