// Package input holds the ingestion plugins that feed observations into aggregates
package input

type Plugin interface {
	Name() string
	Start() error
	Stop() // Should block until shutdown is complete.
}
