// Package diag serves a running heap's statistics and consistency-check
// results over HTTP/3, an optional surface a tracing or benchmarking
// driver can poll instead of linking the module directly.
package diag

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	quic "github.com/quic-go/quic-go"
	http3 "github.com/quic-go/quic-go/http3"

	"github.com/orizon-lang/sbrkheap/internal/heap"
	"github.com/orizon-lang/sbrkheap/internal/version"
)

// HeapSource is the read surface a Server needs. *heap.Heap satisfies it
// directly; MutexGuard adapts it for use alongside a caller that mutates
// the same heap from another goroutine.
type HeapSource interface {
	Stats() heap.Stats
	CheckHeap(verbose bool) error
}

// MutexGuard serializes access to a *heap.Heap shared with a Server, since
// heap.Heap itself is not safe for concurrent use.
type MutexGuard struct {
	Heap *heap.Heap
	Mu   *sync.Mutex
}

func (g MutexGuard) Stats() heap.Stats {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Heap.Stats()
}

func (g MutexGuard) CheckHeap(verbose bool) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Heap.CheckHeap(verbose)
}

// Options configures a Server's QUIC transport.
type Options struct {
	MaxIdleTimeout  time.Duration
	KeepAlivePeriod time.Duration
	// MinLayoutVersion, if set, is a semver constraint the reserved layout
	// tag (internal/version) must satisfy; requests are refused with 409
	// when it does not. Empty disables the check.
	MinLayoutVersion string
}

// Server exposes a HeapSource's /stats and /checkheap endpoints as JSON
// over HTTP/3, adapted from the runtime's generic HTTP3Server.
type Server struct {
	source HeapSource
	layout uint32
	opts   Options
	addr   string
	pc     net.PacketConn
	srv    *http3.Server
	errC   chan error
}

// NewServer builds a diagnostics server for source. layoutWord is the
// value stamped in the managed heap's reserved word (internal/version.Word
// of whatever built it), used to enforce Options.MinLayoutVersion.
func NewServer(addr string, tlsCfg *tls.Config, source HeapSource, layoutWord uint32, opts Options) *Server {
	s := &Server{source: source, layout: layoutWord, opts: opts, addr: addr, errC: make(chan error, 1)}

	tlsCfg = enforceTLS13(tlsCfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/checkheap", s.handleCheckHeap)

	s.srv = &http3.Server{
		Addr:      addr,
		Handler:   mux,
		TLSConfig: tlsCfg,
		QUICConfig: &quic.Config{
			MaxIdleTimeout:  opts.MaxIdleTimeout,
			KeepAlivePeriod: opts.KeepAlivePeriod,
		},
	}
	return s
}

func (s *Server) versionGate(w http.ResponseWriter) bool {
	if s.opts.MinLayoutVersion == "" {
		return true
	}
	ok, err := version.Satisfies(s.layout, s.opts.MinLayoutVersion)
	if err != nil || !ok {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(struct {
			Error string `json:"error"`
		}{Error: "heap layout version does not satisfy " + s.opts.MinLayoutVersion})
		return false
	}
	return true
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.versionGate(w) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.source.Stats())
}

func (s *Server) handleCheckHeap(w http.ResponseWriter, r *http.Request) {
	if !s.versionGate(w) {
		return
	}
	err := s.source.CheckHeap(false)
	resp := struct {
		OK      bool   `json:"ok"`
		Message string `json:"message,omitempty"`
	}{OK: err == nil}
	if err != nil {
		resp.Message = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Start binds the server's UDP socket and begins serving in the
// background, returning the bound address.
func (s *Server) Start() (string, error) {
	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return "", fmt.Errorf("diag: listen %s: %w", s.addr, err)
	}
	s.pc = pc

	go func() {
		s.errC <- s.srv.Serve(pc)
	}()

	return pc.LocalAddr().String(), nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	if s.pc != nil {
		s.pc.Close()
	}
	return err
}

// Err reports the server's terminal error once its serve goroutine exits.
func (s *Server) Err() <-chan error { return s.errC }

// enforceTLS13 bumps a possibly-nil or lax TLS config up to the TLS 1.3
// floor QUIC requires, preserving everything else the caller set.
func enforceTLS13(tlsCfg *tls.Config) *tls.Config {
	if tlsCfg == nil {
		return &tls.Config{MinVersion: tls.VersionTLS13, NextProtos: []string{"h3"}}
	}
	if tlsCfg.MinVersion != 0 && tlsCfg.MinVersion >= tls.VersionTLS13 {
		return tlsCfg
	}
	c := tlsCfg.Clone()
	c.MinVersion = tls.VersionTLS13
	if len(c.NextProtos) == 0 {
		c.NextProtos = []string{"h3"}
	}
	return c
}

// Client returns an http.Client that speaks HTTP/3, for polling a Server.
func Client(tlsCfg *tls.Config, timeout time.Duration) *http.Client {
	tr := &http3.Transport{TLSClientConfig: enforceTLS13(tlsCfg)}
	return &http.Client{Transport: tr, Timeout: timeout}
}

// ShutdownClient releases a Client's underlying HTTP/3 transport.
func ShutdownClient(c *http.Client) {
	if tr, ok := c.Transport.(*http3.Transport); ok {
		_ = tr.Close()
	}
}
