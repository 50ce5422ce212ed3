// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"errors"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// clientConns hands out one gRPC client connection per endpoint.
type clientConns struct {
	mu         sync.Mutex
	byEndpoint map[string]*grpc.ClientConn
}

func (c *clientConns) get(endpoint string) (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cc, ok := c.byEndpoint[endpoint]; ok {
		return cc, nil
	}

	cc, err := grpc.NewClient(
		endpoint,
		// TODO: support TLS transport credentials once config.Exporter carries a CA bundle
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}

	if c.byEndpoint == nil {
		c.byEndpoint = make(map[string]*grpc.ClientConn)
	}
	c.byEndpoint[endpoint] = cc
	return cc, nil
}

// Close closes every connection handed out so far.
func (c *clientConns) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error
	for endpoint, cc := range c.byEndpoint {
		errs = errors.Join(errs, cc.Close())
		delete(c.byEndpoint, endpoint)
	}
	return errs
}
