package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/MixinNetwork/vaultnft/rpc"
	"github.com/MixinNetwork/vaultnft/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bp := flag.String("d", "~/.mixin/vaultnft/data", "database directory path")
	cp := flag.String("c", "~/.mixin/vaultnft/config.toml", "configuration file path")
	lp := flag.String("l", "127.0.0.1:7080", "rpc listen address")
	vl := flag.Int("v", logger.INFO, "log level")
	flag.Parse()

	logger.SetLevel(*vl)

	conf, err := Setup(expandHome(*cp))
	if err != nil {
		panic(err)
	}
	cc, err := conf.Contract.Build()
	if err != nil {
		panic(err)
	}

	db, err := store.OpenBadger(ctx, expandHome(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	clock, err := dispatch.NewClock(db)
	if err != nil {
		panic(err)
	}
	contract, err := nft.NewContract(db, clock, cc)
	if err != nil {
		panic(err)
	}
	err = contract.CheckConfig()
	if errors.Is(err, nft.ErrNotInitialized) {
		err = contract.Init()
		logger.Printf("Contract.Init(%s) => %v\n", cc.AccountId, err)
	}
	if err != nil {
		panic(err)
	}

	timeout, err := conf.Dispatch.RequestTimeout()
	if err != nil {
		panic(err)
	}
	invoker := dispatch.NewHTTPInvoker(conf.Dispatch.Endpoint, timeout)
	dispatcher, err := dispatch.NewDispatcher(db, invoker, clock, cc.AccountId, conf.Dispatch)
	if err != nil {
		panic(err)
	}
	dispatcher.SetWorker(contract)

	server := &http.Server{Addr: *lp, Handler: rpc.NewServer(contract)}
	go func() {
		logger.Printf("rpc.Serve(%s)\n", *lp)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	dispatcher.Run(ctx)
	_ = server.Shutdown(context.Background())
}
