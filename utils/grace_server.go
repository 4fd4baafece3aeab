package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second
	shutdownGrace       = 30 * time.Second

	gracefulEnvKey = "IS_GRACEFUL"
	// The inherited listener arrives as fd 3, after stdin/stdout/stderr.
	gracefulListenerFd = 3
)

// gracefulServer wraps http.Server with SIGTERM drain and SIGUSR2
// zero-downtime restart via listener fd handoff to a child process.
type gracefulServer struct {
	httpServer *http.Server
	listener   net.Listener
	inherited  bool
	done       chan struct{}
}

// GraceServer serves handler on addr until SIGTERM, restarting in place on
// SIGUSR2. Returns nil after a clean shutdown.
func GraceServer(addr string, handler http.Handler) error {
	srv := &gracefulServer{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		done:      make(chan struct{}),
	}
	return srv.listenAndServe()
}

func (s *gracefulServer) listenAndServe() error {
	ln, err := s.listen()
	if err != nil {
		return err
	}
	s.listener = ln

	go s.watchSignals()

	err = s.httpServer.Serve(ln)
	// Serve returns as soon as Shutdown starts; wait for the drain.
	<-s.done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *gracefulServer) listen() (net.Listener, error) {
	if s.inherited {
		f := os.NewFile(gracefulListenerFd, "")
		ln, err := net.FileListener(f)
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return ln, nil
}

func (s *gracefulServer) watchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("SIGTERM received, draining HTTP server")
			s.shutdown()
			return
		case syscall.SIGUSR2:
			Sugar.Info("SIGUSR2 received, forking replacement process")
			pid, err := s.forkChild()
			if err != nil {
				Sugar.Errorf("graceful restart failed, still serving: %v", err)
				continue
			}
			Sugar.Infof("replacement process started, pid=%d", pid)
			s.shutdown()
			return
		}
	}
}

func (s *gracefulServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown: %v", err)
	} else {
		Sugar.Info("HTTP server drained")
	}
	close(s.done)
}

// forkChild re-executes the binary, passing the live listener as fd 3.
func (s *gracefulServer) forkChild() (int, error) {
	tcpLn, ok := s.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener does not support fd handoff")
	}
	f, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvKey+"=1" {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvKey+"=1")

	attr := &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), f.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
