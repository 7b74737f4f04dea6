package app

import (
	"goji.io"
	"goji.io/pat"

	"github.com/nottyhq/notty/vault/endpoint"
)

// Controller binds the API.
type Controller struct{}

// Bind registers the API routes.
func (c *Controller) Bind(
	mux *goji.Mux,
) {
	// Authenticated.
	mux.HandleFunc(pat.Post("/assets"), endpoint.HandlerFor(endpoint.EndPtCreateAsset))
	mux.HandleFunc(pat.Post("/assets/vault"), endpoint.HandlerFor(endpoint.EndPtCreateAssetWithVault))
	mux.HandleFunc(pat.Post("/assets/:asset/vault"), endpoint.HandlerFor(endpoint.EndPtInitVault))
	mux.HandleFunc(pat.Post("/assets/:asset/buy"), endpoint.HandlerFor(endpoint.EndPtBuyAsset))
	mux.HandleFunc(pat.Post("/assets/:asset/sell"), endpoint.HandlerFor(endpoint.EndPtSellAsset))

	// Public.
	mux.HandleFunc(pat.Get("/assets"), endpoint.HandlerFor(endpoint.EndPtListAssets))
	mux.HandleFunc(pat.Get("/assets/:asset"), endpoint.HandlerFor(endpoint.EndPtRetrieveAsset))
	mux.HandleFunc(pat.Get("/assets/:asset/vault"), endpoint.HandlerFor(endpoint.EndPtRetrieveVault))
	mux.HandleFunc(pat.Get("/assets/:asset/trades"), endpoint.HandlerFor(endpoint.EndPtListAssetTrades))
}
