package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"parcelbee-client/internal/logx"
)

// startServer binds srv and serves it in the background. Bind errors are
// returned right away; later serve errors arrive on the channel.
func startServer(srv *http.Server, logger logx.Logger) (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, nil, err
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("console listening", logx.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return ln.Addr(), errCh, nil
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
		if err := srv.Close(); err != nil {
			logger.Warn("server close error", logx.Err(err))
		}
	}
}
