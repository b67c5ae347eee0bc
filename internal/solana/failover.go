package solana

import (
	"context"
	"errors"
	"sync/atomic"
)

// FailoverClient fans a single RPCClient call out across multiple
// endpoints, trying each in round-robin order until one succeeds. It
// satisfies monitor.rpc_endpoints being "a nonempty list": operators can
// configure several providers and this absorbs a single provider's
// downtime without the caller (the fetcher's own retry loop) noticing.
type FailoverClient struct {
	clients []RPCClient
	next    atomic.Uint64
}

// NewFailoverClient wraps clients for round-robin failover. Panics if
// clients is empty — config validation guarantees at least one endpoint
// by the time this is constructed.
func NewFailoverClient(clients ...RPCClient) *FailoverClient {
	if len(clients) == 0 {
		panic("solana: NewFailoverClient requires at least one client")
	}
	return &FailoverClient{clients: clients}
}

var _ RPCClient = (*FailoverClient)(nil)

func (f *FailoverClient) order() []RPCClient {
	start := int(f.next.Add(1)-1) % len(f.clients)
	out := make([]RPCClient, 0, len(f.clients))
	out = append(out, f.clients[start:]...)
	out = append(out, f.clients[:start]...)
	return out
}

// GetTransaction tries each endpoint in turn, returning the first
// success. A not-found result (nil, nil) is returned immediately rather
// than treated as a failure to try the next endpoint.
func (f *FailoverClient) GetTransaction(ctx context.Context, signature string) (*Transaction, error) {
	var lastErr error
	for _, c := range f.order() {
		tx, err := c.GetTransaction(ctx, signature)
		if err == nil {
			return tx, nil
		}
		lastErr = err
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
