// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sourcegraph/conc/pool"
)

// server serves an [http.Server] until its context is cancelled and
// then shuts it down gracefully.
type server struct {
	ls  net.Listener
	srv *http.Server
}

// Run implements the [bedrock.App] interface.
func (s server) Run(ctx context.Context) error {
	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		return s.srv.Serve(s.ls)
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return s.srv.Shutdown(context.Background())
	})

	err := p.Wait()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
