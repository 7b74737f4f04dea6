package main

import (
	"flag"
	"log"

	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/vault/app"
)

var envFlag string
var dsnFlag string
var hstFlag string
var prtFlag string
var ownFlag string
var regFlag string
var obsFlag string

func init() {
	flag.StringVar(&envFlag, "env", "qa",
		"The environment to run in (qa, production), default: qa")
	flag.StringVar(&dsnFlag, "db_dsn", "",
		"The DSN of the database to use, default: "+
			"sqlite3://~/.vault/vault-$env.db")
	flag.StringVar(&hstFlag, "host", "",
		"The hostname this vault is reachable at")
	flag.StringVar(&prtFlag, "port", "",
		"The port to listen on, default: 2406 (prod), 2407 (qa)")
	flag.StringVar(&ownFlag, "owner", "",
		"The address receiving the owner half of trade fees")
	flag.StringVar(&regFlag, "registry_url", "",
		"The URL of the metadata registry")
	flag.StringVar(&obsFlag, "observer_url", "",
		"The URL emitted events are propagated to, default: none")
}

func main() {
	flag.Parse()

	ctx, err := app.BackgroundContextFromFlags(
		envFlag, dsnFlag, hstFlag, prtFlag, ownFlag, regFlag, obsFlag)
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	mux, err := app.Build(ctx)
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	err = app.Serve(ctx, mux)
	if err != nil {
		log.Fatal(errors.Details(err))
	}
}
