package diag

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/orizon-lang/sbrkheap/internal/heap"
	"github.com/orizon-lang/sbrkheap/internal/version"
)

func mustHeap(t *testing.T) *heap.Heap {
	t.Helper()
	p, err := heap.NewFixedProvider(1 << 16)
	if err != nil {
		t.Fatalf("NewFixedProvider: %v", err)
	}
	h := heap.New(p)
	if err := h.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return h
}

func TestServerStatsAndCheckHeapLoopback(t *testing.T) {
	h := mustHeap(t)
	var mu sync.Mutex
	if _, err := h.Alloc(64); err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	tlsCfg, err := GenerateDevTLS([]string{"127.0.0.1"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateDevTLS: %v", err)
	}

	srv := NewServer("127.0.0.1:0", tlsCfg, MutexGuard{Heap: h, Mu: &mu}, version.Word(), Options{})
	addr, err := srv.Start()
	if err != nil {
		t.Skip("http3 not supported here:", err)
	}
	defer srv.Stop()

	cli := Client(&tls.Config{InsecureSkipVerify: true, MinVersion: tls.VersionTLS12}, 2*time.Second)
	defer ShutdownClient(cli)

	resp, err := cli.Get("https://" + addr + "/stats")
	if err != nil {
		t.Skip("http3 dial failed:", err)
	}
	defer resp.Body.Close()

	var stats heap.Stats
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decoding /stats response %q: %v", body, err)
	}
	if stats.AllocCount != 1 {
		t.Errorf("AllocCount = %d, want 1", stats.AllocCount)
	}

	resp2, err := cli.Get("https://" + addr + "/checkheap")
	if err != nil {
		t.Skip("http3 dial failed:", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("/checkheap status = %d", resp2.StatusCode)
	}
}
