package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"

	"go-metronome/debug"
)

// DeviceEvent is emitted when a controller connects or disconnects
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager polls the driver and opens Launchpads as they appear
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a manager polling once a second
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns connect/disconnect events. Closed when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Run polls until ctx is done (blocking, run in a goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

func (dm *DeviceManager) emit(ctx context.Context, evt DeviceEvent) {
	select {
	case dm.events <- evt:
	case <-ctx.Done():
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	ports, err := ListPorts(portTimeout)
	if err != nil {
		debug.LogEvery(10, "devices", "scan skipped: %v", err)
		return
	}

	seen := make(map[string]bool)
	for _, in := range ports.Ins {
		id := in.String()
		if !IsLaunchpad(id) {
			continue
		}
		seen[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		lp, err := OpenLaunchpad(id, in, matchOut(ports.Outs, id))
		if err != nil {
			debug.Warn("devices", "open %s: %v", id, err)
			continue
		}
		dm.mu.Lock()
		dm.controllers[id] = lp
		dm.mu.Unlock()
		dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Controller: lp, ID: id})
	}

	dm.mu.Lock()
	var gone []string
	for id, c := range dm.controllers {
		if !seen[id] {
			c.Close()
			delete(dm.controllers, id)
			gone = append(gone, id)
		}
	}
	dm.mu.Unlock()

	for _, id := range gone {
		dm.emit(ctx, DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

// matchOut finds the output port with the same name as an input
func matchOut(outs []drivers.Out, name string) drivers.Out {
	for _, out := range outs {
		if strings.EqualFold(out.String(), name) {
			return out
		}
	}
	return nil
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}
