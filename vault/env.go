package vault

import (
	"context"

	"github.com/nottyhq/notty/lib/env"
)

const (
	// EnvCfgHost is the env config key for the vault host.
	EnvCfgHost env.ConfigKey = "host"
	// EnvCfgPort is the env config key for the port the vault listens on.
	EnvCfgPort env.ConfigKey = "port"
	// EnvCfgOwner is the env config key for the platform owner address,
	// destination of the owner half of trade fees.
	EnvCfgOwner env.ConfigKey = "owner"
	// EnvCfgRegistryURL is the env config key for the URL of the external
	// metadata registry.
	EnvCfgRegistryURL env.ConfigKey = "registry_url"
	// EnvCfgObserverURL is the env config key for the URL events are
	// propagated to. Propagation is skipped when unset.
	EnvCfgObserverURL env.ConfigKey = "observer_url"
)

// DefaultPort is the default port the vault listens on per environment.
var DefaultPort = map[env.Environment]string{
	env.Production: "2406",
	env.QA:         "2407",
}

// GetHost returns the vault host from the context.
func GetHost(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgHost]
}

// GetPort returns the vault port from the context.
func GetPort(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgPort]
}

// GetOwner returns the platform owner address from the context.
func GetOwner(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgOwner]
}

// GetObserverURL returns the observer URL from the context, or the empty
// string if none is configured.
func GetObserverURL(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgObserverURL]
}
