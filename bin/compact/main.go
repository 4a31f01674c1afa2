package main

import (
	"flag"
	"fmt"

	"github.com/mvkdcrypto/treeview/storage"
)

func mainInner() error {
	dbPtr := flag.String("db", "", "leveldb directory of a tree store")
	flag.Parse()

	if *dbPtr == "" {
		return fmt.Errorf("need --db")
	}

	eng, err := storage.OpenLevelEngine(*dbPtr)
	if err != nil {
		return err
	}
	defer eng.Close()

	return eng.Compact()
}

func main() {
	err := mainInner()
	if err != nil {
		panic(err.Error())
	}
}
