package chat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// overlapConn counts writes and flags any two that run at the same
// time. Fasthttp websocket connections tolerate only a single writer,
// so an overlap here would be a data race in production.
type overlapConn struct {
	writing int32
	overlap int32
	writes  int32
}

func (c *overlapConn) WriteMessage(messageType int, data []byte) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.StoreInt32(&c.writing, 0)
	return nil
}

func TestBroadcastSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &overlapConn{}
	hub.Register(42, conn)

	msg := &Message{ID: 1, ConversationID: 3, SenderID: 7, Content: "hallo"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast([]int64{42}, msg)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&conn.writes); got != 8 {
		t.Fatalf("writes = %d, want 8", got)
	}
	if atomic.LoadInt32(&conn.overlap) != 0 {
		t.Error("two broadcasts wrote to the same connection at once")
	}
}

func TestBroadcastSkipsUnregisteredConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	stays := &overlapConn{}
	leaves := &overlapConn{}
	hub.Register(42, stays)
	hub.Register(42, leaves)
	hub.Unregister(42, leaves)

	hub.Broadcast([]int64{42}, &Message{ID: 1, Content: "hallo"})

	if got := atomic.LoadInt32(&stays.writes); got != 1 {
		t.Errorf("remaining connection writes = %d, want 1", got)
	}
	if got := atomic.LoadInt32(&leaves.writes); got != 0 {
		t.Errorf("unregistered connection writes = %d, want 0", got)
	}
}
