// Package functional contains functional tests for the vault service.
package functional
