package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"goji.io"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/env"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/logging"
	"github.com/nottyhq/notty/lib/recoverer"
	"github.com/nottyhq/notty/lib/requestlogger"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/async"
	"github.com/nottyhq/notty/vault/lib/authentication"
	"github.com/nottyhq/notty/vault/registry"

	// force initialization of schemas
	_ "github.com/nottyhq/notty/vault/model/schemas"
)

// BackgroundContextFromFlags initializes a background context fully loaded
// with everything that could be extracted from the flags.
func BackgroundContextFromFlags(
	envFlag string,
	dsnFlag string,
	hstFlag string,
	prtFlag string,
	ownFlag string,
	regFlag string,
	obsFlag string,
) (context.Context, error) {
	ctx := context.Background()

	vaultEnv := env.Env{
		Environment: env.QA,
		Config:      map[env.ConfigKey]string{},
	}
	if envFlag == "production" || envFlag == "prod" {
		vaultEnv.Environment = env.Production
	}
	vaultEnv.Config[vault.EnvCfgHost] = hstFlag

	port := vault.DefaultPort[vaultEnv.Environment]
	if prtFlag != "" {
		port = prtFlag
	}
	vaultEnv.Config[vault.EnvCfgPort] = port
	vaultEnv.Config[vault.EnvCfgOwner] = ownFlag
	vaultEnv.Config[vault.EnvCfgRegistryURL] = regFlag
	vaultEnv.Config[vault.EnvCfgObserverURL] = obsFlag

	ctx = env.With(ctx, &vaultEnv)

	vaultDB, err := db.NewDBForDSN(ctx,
		dsnFlag,
		fmt.Sprintf("sqlite3://~/.vault/vault-%s.db",
			env.Get(ctx).Environment))
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = db.CreateDBTables(ctx, vaultDB)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ctx = db.WithDB(ctx, vaultDB)

	ctx = async.With(ctx, async.NewAsync(ctx))

	return ctx, nil
}

// Build initializes the app and its web stack.
func Build(
	ctx context.Context,
) (*goji.Mux, error) {
	if vault.GetHost(ctx) == "" {
		return nil, errors.Trace(errors.Newf(
			"You must set the `-host` flag to the hostname this vault is " +
				"reachable at. You can use `-host=127.0.0.1` for testing " +
				"purposes.",
		))
	}
	if vault.GetOwner(ctx) == "" {
		return nil, errors.Trace(errors.Newf(
			"You must set the `-owner` flag to the address receiving the " +
				"owner half of trade fees.",
		))
	}

	var reg registry.Registry
	regURL := env.Get(ctx).Config[vault.EnvCfgRegistryURL]
	switch {
	case regURL != "":
		reg = registry.NewHTTPRegistry(regURL)
	case env.Get(ctx).Environment == env.Production:
		return nil, errors.Trace(errors.Newf(
			"You must set the `-registry_url` flag to the URL of the " +
				"metadata registry in production.",
		))
	default:
		logging.Logf(ctx,
			"No registry URL configured, metadata registration is a no-op")
		reg = registry.NopRegistry{}
	}

	mux := goji.NewMux()
	mux.Use(requestlogger.Middleware)
	mux.Use(recoverer.Middleware)
	mux.Use(db.Middleware(db.GetDB(ctx)))
	mux.Use(env.Middleware(env.Get(ctx)))
	mux.Use(registry.Middleware(reg))
	mux.Use(async.Middleware(async.Get(ctx)))
	mux.Use(authentication.Middleware)

	logging.Logf(ctx, "Initializing: environment=%s host=%s port=%s",
		env.Get(ctx).Environment, vault.GetHost(ctx), vault.GetPort(ctx))

	(&Controller{}).Bind(mux)

	// Start an async worker.
	go func() {
		async.Get(ctx).Run()
	}()

	return mux, nil
}

// Serve the goji mux.
func Serve(
	ctx context.Context,
	mux *goji.Mux,
) error {
	s := &http.Server{
		Addr:         fmt.Sprintf(":%s", vault.GetPort(ctx)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Handler:      mux,
	}

	logging.Logf(ctx, "Listening: port=%s", vault.GetPort(ctx))

	err := gracehttp.Serve(s)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}
