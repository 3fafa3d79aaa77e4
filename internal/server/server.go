package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/internal/protocol/mount"
	"github.com/jameshightower/simple-nfs/internal/protocol/nfs"
	"github.com/jameshightower/simple-nfs/pkg/config"
	"github.com/jameshightower/simple-nfs/pkg/metrics"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

type NFSServer struct {
	port         int
	maxConns     int
	readTimeout  time.Duration
	writeTimeout time.Duration

	listener     net.Listener
	nfsHandler   NFSHandler
	mountHandler MountHandler
	fsys         vfs.FileSystem
	metrics      metrics.ServerMetrics

	active atomic.Int32
	wg     sync.WaitGroup
	sem    chan struct{}
}

func New(cfg *config.Config, fsys vfs.FileSystem, serverMetrics metrics.ServerMetrics) *NFSServer {
	if serverMetrics == nil {
		serverMetrics = metrics.NewServerMetrics()
	}

	s := &NFSServer{
		port:         cfg.NFS.Port,
		maxConns:     cfg.NFS.MaxConnections,
		readTimeout:  cfg.NFS.ReadTimeout,
		writeTimeout: cfg.NFS.WriteTimeout,
		nfsHandler:   &nfs.DefaultNFSHandler{},
		mountHandler: &mount.DefaultMountHandler{ExportName: cfg.Export.Name},
		fsys:         fsys,
		metrics:      serverMetrics,
	}

	if s.maxConns > 0 {
		s.sem = make(chan struct{}, s.maxConns)
	}

	return s
}

// RegisterNFSHandler registers a custom NFS handler
func (s *NFSServer) RegisterNFSHandler(handler NFSHandler) {
	s.nfsHandler = handler
}

// RegisterMountHandler registers a custom Mount handler
func (s *NFSServer) RegisterMountHandler(handler MountHandler) {
	s.mountHandler = handler
}

// FileSystem returns the file system the server exports.
func (s *NFSServer) FileSystem() vfs.FileSystem {
	return s.fsys
}

func (s *NFSServer) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	s.listener = listener
	logger.Info("NFS server listening on port %d", s.port)

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		tcpConn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.wg.Wait()
				return nil
			default:
				logger.Debug("Error accepting connection: %v", err)
				continue
			}
		}

		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
			default:
				logger.Warn("Connection limit reached (%d), rejecting %s",
					s.maxConns, tcpConn.RemoteAddr())
				tcpConn.Close()
				continue
			}
		}

		conn := s.newConn(tcpConn)
		s.wg.Add(1)
		s.metrics.SetActiveConnections(s.active.Add(1))
		go conn.serve(ctx)
	}
}

func (s *NFSServer) newConn(tcpConn net.Conn) *conn {
	c := &conn{
		server: s,
		conn:   tcpConn,
	}

	return c
}

// connDone releases the per-connection bookkeeping held since Accept.
func (s *NFSServer) connDone() {
	s.metrics.SetActiveConnections(s.active.Add(-1))
	if s.sem != nil {
		<-s.sem
	}
	s.wg.Done()
}

func (s *NFSServer) Stop() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
