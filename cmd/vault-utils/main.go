package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/vault/app"
	"github.com/nottyhq/notty/vault/model"
)

var envFlag string
var dsnFlag string

func init() {
	flag.StringVar(&envFlag, "env", "qa",
		"The environment to run in (qa, production), default: qa")
	flag.StringVar(&dsnFlag, "db_dsn", "",
		"The DSN of the database to use, default: "+
			"sqlite3://~/.vault/vault-$env.db")
}

func usage() {
	log.Fatal(
		"Usage: vault-utils [flags] <command> [args]\n" +
			"  create_user <username> <password>\n" +
			"  credit <holder> <amount>")
}

func main() {
	flag.Parse()

	ctx, err := app.BackgroundContextFromFlags(
		envFlag, dsnFlag, "", "", "", "", "")
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	switch args[0] {
	case "create_user":
		if len(args) != 3 {
			usage()
		}

		ctx = db.Begin(ctx)
		defer db.LoggedRollback(ctx)

		user, err := model.CreateUser(ctx, args[1], args[2])
		if err != nil {
			log.Fatal(errors.Details(err))
		}

		db.Commit(ctx)

		fmt.Printf("Created user: token=%s username=%s\n",
			user.Token, user.Username)

	case "credit":
		if len(args) != 3 {
			usage()
		}

		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			log.Fatal(errors.Details(errors.Trace(err)))
		}

		ctx = db.Begin(ctx)
		defer db.LoggedRollback(ctx)

		fund, err := model.CreditFund(ctx, args[1], model.Amount(amount))
		if err != nil {
			log.Fatal(errors.Details(err))
		}

		db.Commit(ctx)

		fmt.Printf("Credited fund: holder=%s value=%d\n",
			fund.Holder, uint64(fund.Value))

	default:
		usage()
	}
}
