// Package chain provides current-block-height sources for tally snapshots.
package chain

import (
	"context"
	"fmt"
	"sync"

	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
)

// RPCSource reads the latest block height from a CometBFT RPC endpoint.
type RPCSource struct {
	client *rpchttp.HTTP
}

// NewRPCSource creates a height source against the given RPC base URL.
// rpchttp.New takes the RPC base URL and WS path separately.
func NewRPCSource(rpcURL, wsPath string) (*RPCSource, error) {
	client, err := rpchttp.New(rpcURL, wsPath)
	if err != nil {
		return nil, fmt.Errorf("create rpc client: %w", err)
	}
	return &RPCSource{client: client}, nil
}

func (s *RPCSource) CurrentHeight(ctx context.Context) (int64, error) {
	status, err := s.client.Status(ctx)
	if err != nil {
		return 0, fmt.Errorf("chain status: %w", err)
	}
	return status.SyncInfo.LatestBlockHeight, nil
}

// StaticSource is a fixed height source for tests and offline runs.
type StaticSource struct {
	mu     sync.Mutex
	height int64
}

func NewStaticSource(height int64) *StaticSource {
	return &StaticSource{height: height}
}

func (s *StaticSource) CurrentHeight(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height, nil
}

func (s *StaticSource) SetHeight(height int64) {
	s.mu.Lock()
	s.height = height
	s.mu.Unlock()
}
