package display

import (
	"fmt"
	"time"

	"github.com/lixenwraith/splitscreen/core"
	"github.com/lixenwraith/splitscreen/gate"
)

// Config carries construction-time options for a shared display
type Config struct {
	// ChunkHeight is the height of one flush strip in pixels.
	// Must evenly divide the screen height. Only used by Shared.
	ChunkHeight int
	// FlushInterval is the sleep between flush cycles
	FlushInterval time.Duration
	// MaxPartitions bounds the number of simultaneously live partitions
	MaxPartitions int
	// RetryDelay is the gate's poll interval for contended admission
	RetryDelay time.Duration
}

// DefaultConfig returns the reference configuration
func DefaultConfig() Config {
	return Config{
		ChunkHeight:   8,
		FlushInterval: 20 * time.Millisecond,
		MaxPartitions: 8,
		RetryDelay:    gate.DefaultRetryDelay,
	}
}

func (c Config) validate(screen core.Size, chunked bool) error {
	if screen.Width <= 0 || screen.Height <= 0 {
		return fmt.Errorf("display: driver reports empty screen %dx%d", screen.Width, screen.Height)
	}
	if chunked {
		if c.ChunkHeight <= 0 {
			return fmt.Errorf("display: chunk height %d not positive", c.ChunkHeight)
		}
		if screen.Height%c.ChunkHeight != 0 {
			return fmt.Errorf("display: chunk height %d does not divide screen height %d", c.ChunkHeight, screen.Height)
		}
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("display: flush interval %v not positive", c.FlushInterval)
	}
	if c.MaxPartitions <= 0 {
		return fmt.Errorf("display: partition limit %d not positive", c.MaxPartitions)
	}
	return nil
}
