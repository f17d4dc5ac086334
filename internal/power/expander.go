//go:build linux

package power

import (
	"fmt"
	"sync"

	"github.com/d2r2/go-i2c"
	"github.com/d2r2/go-logger"
)

// PCA95xx-family register map. Two 8-bit banks.
const (
	regOutput0 = 0x02
	regConfig0 = 0x06
)

// Expander drives the rails through an I2C IO expander's output registers.
// SetLevel performs a read-modify-write on a shadow copy of the output banks
// so unrelated pins keep their levels.
type Expander struct {
	mu     sync.Mutex
	bus    *i2c.I2C
	shadow uint16
}

// NewExpander opens the expander at addr on the given I2C bus, configures the
// rail pins as outputs and captures the current output levels.
func NewExpander(addr uint8, bus int) (*Expander, error) {
	logger.ChangePackageLogLevel("i2c", logger.InfoLevel)
	conn, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %d: %w", bus, err)
	}

	e := &Expander{bus: conn}

	// Config bits are 1=input on this family; drive both banks as outputs.
	if err := e.writePair(regConfig0, 0x0000); err != nil {
		conn.Close()
		return nil, fmt.Errorf("configure expander outputs: %w", err)
	}

	lo, err := conn.ReadRegU8(regOutput0)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read output bank 0: %w", err)
	}
	hi, err := conn.ReadRegU8(regOutput0 + 1)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read output bank 1: %w", err)
	}
	e.shadow = uint16(hi)<<8 | uint16(lo)

	return e, nil
}

// SetLevel drives every rail in mask to the given level.
func (e *Expander) SetLevel(mask RailMask, level Level) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.shadow
	if level == On {
		next |= uint16(mask)
	} else {
		next &^= uint16(mask)
	}

	if err := e.writePair(regOutput0, next); err != nil {
		return fmt.Errorf("set rails %#04x to %d: %w", uint16(mask), level, err)
	}
	e.shadow = next
	return nil
}

func (e *Expander) writePair(reg byte, value uint16) error {
	if err := e.bus.WriteRegU8(reg, byte(value&0xff)); err != nil {
		return err
	}
	return e.bus.WriteRegU8(reg+1, byte(value>>8))
}

// Close releases the I2C bus.
func (e *Expander) Close() error {
	return e.bus.Close()
}
