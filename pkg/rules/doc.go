// Package rules defines the canonical automation rule model.
//
// A Rule describes one automation hook: the lifecycle event it fires on,
// an optional matcher narrowing the sub-events, and an ordered list of
// commands to run. Rules live in the canonical store and are projected
// into each provider's native configuration file by the provider
// adapters. The rule model itself knows nothing about native formats;
// it only carries enough structure for adapters to translate it.
package rules
