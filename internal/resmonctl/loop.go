// Package resmonctl wires together the stat store (C1), the register
// decoder (C2), a source adapter (C3), and the RPC server (C4) into the
// single-threaded event loop spec.md §5 describes: exactly one
// suspension point, polling the RPC socket and the adapter's fd
// together, with SIGINT/SIGQUIT/SIGTERM and the "stop" RPC converging
// on one shared quit flag.
package resmonctl

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/mellanox/resmon/internal/rpc"
	"github.com/mellanox/resmon/internal/source"
	"github.com/mellanox/resmon/internal/stat"
)

// CapacityFunc reports the device's resource capacity for the "stats"
// reply (spec.md §4.4: "capacity comes from C5, or a fixed 10000 in
// mock mode").
type CapacityFunc func() (uint64, error)

// Config bundles everything the loop needs beyond what it owns itself.
type Config struct {
	SockDir  string
	Source   source.Adapter
	Capacity CapacityFunc
	Logger   Logger
}

// Loop is one running instance of resmon's control daemon.
type Loop struct {
	cfg     Config
	store   *stat.Store
	server  *rpc.Server
	epollFD int
	quit    atomic.Bool
}

// New constructs a Loop. It does not bind any sockets or acquire any
// adapter resources yet; call Run for that.
func New(cfg Config) *Loop {
	return &Loop{cfg: cfg, store: stat.New()}
}

const readinessNotification = "resmon: listening\n"

// Run binds the RPC socket, initializes the source adapter, and runs the
// event loop until a quit signal arrives or an I/O error forces an
// orderly shutdown (spec.md §7: "I/O errors propagated out of the event
// loop, causing orderly shutdown with non-zero exit").
func (l *Loop) Run() error {
	if err := l.cfg.Source.Init(); err != nil {
		return fmt.Errorf("resmonctl: source init: %w", err)
	}
	defer l.cfg.Source.Finalize()

	serverPath := filepath.Join(l.cfg.SockDir, "resmon.ctl")
	server, err := rpc.Listen(serverPath)
	if err != nil {
		return fmt.Errorf("resmonctl: %w", err)
	}
	l.server = server
	defer server.Close()

	epollFD, err := unix.EpollCreate1(0)
	if err != nil {
		return fmt.Errorf("resmonctl: epoll_create1: %w", err)
	}
	l.epollFD = epollFD
	defer unix.Close(epollFD)

	serverFD, err := server.FD()
	if err != nil {
		return fmt.Errorf("resmonctl: rpc socket fd: %w", err)
	}
	if err := l.registerFD(serverFD); err != nil {
		return err
	}

	adapterFD, hasFD := l.cfg.Source.PollFD()
	if hasFD {
		if err := l.registerFD(adapterFD); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		l.requestStop()
	}()

	fmt.Fprint(os.Stdout, readinessNotification)
	l.cfg.Logger.Printf(1, "resmon: listening on %s", serverPath)

	events := make([]unix.EpollEvent, 8)
	for !l.quit.Load() {
		n, err := unix.EpollWait(epollFD, events, 250)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("resmonctl: epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			switch {
			case fd == serverFD:
				l.handleRPC()
			case hasFD && fd == adapterFD:
				if err := l.cfg.Source.OnActivity(l.store); err != nil {
					l.cfg.Logger.Errorf("resmon: adapter activity: %v", err)
				}
			}
		}
	}

	l.cfg.Logger.Printf(1, "resmon: shutting down")
	return nil
}

func (l *Loop) registerFD(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(l.epollFD, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("resmonctl: epoll_ctl: %w", err)
	}
	return nil
}

func (l *Loop) requestStop() {
	l.quit.Store(true)
}
