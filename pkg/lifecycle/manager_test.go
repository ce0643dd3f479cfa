package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceHandle_RejectsDuplicateName(t *testing.T) {
	m := NewManager()

	h, err := m.NewServiceHandle("worker")
	require.NoError(t, err)
	defer h.Close()

	_, err = m.NewServiceHandle("worker")
	assert.Error(t, err)
}

func TestShutdown_BroadcastsToAllHandles(t *testing.T) {
	m := NewManager()
	h1, err := m.NewServiceHandle("a")
	require.NoError(t, err)
	h2, err := m.NewServiceHandle("b")
	require.NoError(t, err)

	m.Shutdown()

	select {
	case <-h1.Done():
	case <-time.After(time.Second):
		t.Fatal("句柄a未收到停机信号")
	}
	select {
	case <-h2.Done():
	case <-time.After(time.Second):
		t.Fatal("句柄b未收到停机信号")
	}
	assert.Error(t, h1.Err())

	h1.Close()
	h2.Close()
	assert.Nil(t, m.WaitWithTimeout(time.Second))
}

func TestWaitWithTimeout_ReportsStragglers(t *testing.T) {
	m := NewManager()
	_, err := m.NewServiceHandle("slowpoke")
	require.NoError(t, err)

	m.Shutdown()
	remaining := m.WaitWithTimeout(20 * time.Millisecond)
	assert.Equal(t, []string{"slowpoke"}, remaining)
}

func TestSleep_InterruptedByShutdown(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("sleeper")
	require.NoError(t, err)
	defer h.Close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Shutdown()
	}()

	start := time.Now()
	err = h.Sleep(5 * time.Second)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleep_CompletesWithoutShutdown(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("sleeper")
	require.NoError(t, err)
	defer h.Close()

	assert.NoError(t, h.Sleep(5*time.Millisecond))
}
