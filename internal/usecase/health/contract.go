package health

import "context"

// Checker is anything that can report its own availability.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks prediction cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
