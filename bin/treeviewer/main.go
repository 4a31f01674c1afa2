package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	_ "net/http/pprof"

	"github.com/mvkdcrypto/treeview/client"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/viewer"
	"golang.org/x/sync/errgroup"
)

func mainInner() error {
	portPtr := flag.Int("port", 8080, "port")
	servicePtr := flag.String("service", "http://localhost:3030", "tree service base url")
	timeoutPtr := flag.Duration("timeout", 0, "per-request timeout against the tree service, 0 for none")
	queuePtr := flag.Int("queue", viewer.DefaultQueueDepth, "actions a page may queue")
	pprofPtr := flag.String("pprof", "", "pprof address, empty to disable")
	debugPtr := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	ctx := logger.NewContext(context.Background(), logger.NewWithWriter("treeviewer", os.Stderr, *debugPtr))

	ccfg, err := client.NewConfig(*servicePtr, *timeoutPtr)
	if err != nil {
		return err
	}
	vcfg, err := viewer.NewConfig(*queuePtr)
	if err != nil {
		return err
	}
	v := viewer.New(ctx, vcfg, client.New(ccfg))

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
		ctx.Info("Starting viewer on %s for %s", listener.Addr(), *servicePtr)
		return http.Serve(listener, v.Handler())
	})
	return eg.Wait()
}

func main() {
	err := mainInner()
	if err != nil {
		panic(err.Error())
	}
}
