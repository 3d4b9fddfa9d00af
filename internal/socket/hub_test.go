package socket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"workforce-ops-api-server/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	h := NewHub(logger.Discard())
	a1, a2, b := &fakeConn{}, &fakeConn{}, &fakeConn{}
	h.Register("u1", a1)
	h.Register("u1", a2)
	h.Register("u2", b)
	require.Equal(t, 3, h.Count())

	h.Broadcast("alert_created", map[string]string{"title": "Freezer temp high"})

	for _, c := range []*fakeConn{a1, a2, b} {
		require.Len(t, c.frames, 1)
		var msg struct {
			Event string            `json:"event"`
			Alert map[string]string `json:"alert"`
		}
		require.NoError(t, json.Unmarshal(c.frames[0], &msg))
		assert.Equal(t, "alert_created", msg.Event)
		assert.Equal(t, "Freezer temp high", msg.Alert["title"])
	}
}

func TestBroadcastDropsBrokenConnection(t *testing.T) {
	h := NewHub(logger.Discard())
	ok, broken := &fakeConn{}, &fakeConn{fail: true}
	h.Register("u1", ok)
	h.Register("u2", broken)

	h.Broadcast("alert_created", nil)

	assert.Equal(t, 1, h.Count())
	assert.True(t, broken.closed)
	assert.Len(t, ok.frames, 1)
}

func TestSendToOfflineUserIsNotAnError(t *testing.T) {
	h := NewHub(logger.Discard())
	assert.NoError(t, h.Send("ghost", []byte("{}")))

	c := &fakeConn{}
	h.Register("u1", c)
	require.NoError(t, h.Send("u1", []byte(`{"event":"ping"}`)))
	assert.Len(t, c.frames, 1)

	h.Unregister("u1", c)
	assert.Equal(t, 0, h.Count())
}
