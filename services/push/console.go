// Package pushsvc holds PushChannel implementations. Real push delivery
// infrastructure lives outside this system; the console channel covers DEV
// and TEST by invoking the registered wake handler locally after the delay.
package pushsvc

import (
	"sync"
	"time"

	"github.com/kwachira/ratiba/core"
)

type ConsoleChannel struct {
	logger core.Logger

	mu    sync.Mutex
	timer *time.Timer
	wake  func()
}

var _ core.PushChannel = (*ConsoleChannel)(nil)

func NewConsoleChannel(logger core.Logger) *ConsoleChannel {
	return &ConsoleChannel{logger: logger}
}

// OnWake registers the handler invoked when a scheduled delivery fires.
func (c *ConsoleChannel) OnWake(wake func()) {
	c.mu.Lock()
	c.wake = wake
	c.mu.Unlock()
}

// DeliverSilent schedules a wake after the delay. A previously armed
// delivery is always cancelled first so timers never accumulate.
func (c *ConsoleChannel) DeliverSilent(payload map[string]interface{}, afterSeconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.logger.Debug("push: silent delivery scheduled", payload)
	c.timer = time.AfterFunc(time.Duration(afterSeconds)*time.Second, func() {
		c.mu.Lock()
		wake := c.wake
		c.mu.Unlock()
		if wake != nil {
			wake()
		}
	})
}

func (c *ConsoleChannel) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
