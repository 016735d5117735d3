// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by handlers.
// Repository ports are implemented by the store adapters and called by the
// application layer.
package ports
