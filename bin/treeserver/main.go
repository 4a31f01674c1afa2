package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	_ "net/http/pprof"

	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/service"
	"github.com/mvkdcrypto/treeview/storage"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func mainInner() error {
	portPtr := flag.Int("port", 3030, "port")
	storePtr := flag.String("store", storage.StoreSQLite, "sqlite, postgres or leveldb")
	dsnPtr := flag.String("dsn", "file:trees.db", "database source name, or leveldb directory")
	cachePtr := flag.Int("cache", service.DefaultCacheSize, "number of live trees kept in memory")
	pprofPtr := flag.String("pprof", "localhost:6060", "pprof address, empty to disable")
	debugPtr := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	ctx := logger.NewContext(context.Background(), logger.NewWithWriter("treeserver", os.Stderr, *debugPtr))

	cfg, err := service.NewConfig(*cachePtr)
	if err != nil {
		return err
	}
	eng, err := storage.Open(*storePtr, *dsnPtr)
	if err != nil {
		return err
	}
	defer eng.Close()

	m, err := service.NewManager(cfg, eng, nil)
	if err != nil {
		return err
	}
	if err := m.Warm(ctx); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", *portPtr))
	if err != nil {
		return err
	}

	var eg errgroup.Group
	if *pprofPtr != "" {
		eg.Go(func() error {
			return http.ListenAndServe(*pprofPtr, nil)
		})
	}
	eg.Go(func() error {
		ctx.Info("Starting tree service on %s (%s store)", listener.Addr(), *storePtr)
		return http.Serve(listener, service.NewServer(ctx, m).Handler())
	})
	return eg.Wait()
}

func main() {
	err := mainInner()
	if err != nil {
		panic(err.Error())
	}
}
