package main

import (
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mvkdcrypto/treeview/storage"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func inner() error {
	driverPtr := flag.String("driver", "postgres", "sqlite3 or postgres")
	dsnPtr := flag.String("dsn", "user=foo dbname=trees sslmode=disable", "database source name")
	flag.Parse()

	db, err := sqlx.Open(*driverPtr, *dsnPtr)
	if err != nil {
		return err
	}
	defer db.Close()

	eng := storage.NewSQLEngine(db)
	err = eng.Reset()
	if err != nil {
		return err
	}

	fmt.Println("Reset tree tables")
	return nil
}

func main() {
	err := inner()
	if err != nil {
		panic(err)
	}
}
