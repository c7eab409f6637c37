package ddc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DDC register map of the u-blox receivers.
const (
	regAvail  = 0xFD // 16-bit pending byte count, high byte first
	regStream = 0xFF // reads drain the message stream

	// DefaultAddr is the factory I2C address of u-blox receivers.
	DefaultAddr = 0x42
)

// I2CConfig configures the DDC transport.
type I2CConfig struct {
	// Bus is the periph.io bus name, e.g. "1" or "/dev/i2c-1". Empty
	// selects the first available bus.
	Bus string
	// Addr is the 7-bit device address; zero means DefaultAddr.
	Addr uint16
	// CountLSBFirst flips the byte order of the pending count for
	// receivers (or bus adapters) that deliver it low byte first.
	CountLSBFirst bool
}

// I2C reads the DDC stream of one receiver.
type I2C struct {
	dev      i2c.Dev
	bus      i2c.BusCloser
	lsbFirst bool
}

// OpenI2C initializes the periph host, opens the configured bus and
// returns a ready DDC source.
func OpenI2C(cfg I2CConfig) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ddc: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("ddc: open I2C bus %q: %w", cfg.Bus, err)
	}

	d := NewI2C(bus, cfg)
	d.bus = bus
	return d, nil
}

// NewI2C wraps an already-open bus. The caller keeps ownership of the
// bus; Close is a no-op for devices built this way.
func NewI2C(bus i2c.Bus, cfg I2CConfig) *I2C {
	addr := cfg.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	return &I2C{
		dev:      i2c.Dev{Bus: bus, Addr: addr},
		lsbFirst: cfg.CountLSBFirst,
	}
}

// Available reads the 16-bit pending byte count from 0xFD/0xFE.
func (d *I2C) Available() (int, error) {
	var buf [2]byte
	if err := d.dev.Tx([]byte{regAvail}, buf[:]); err != nil {
		return 0, fmt.Errorf("ddc: read pending count: %w", err)
	}
	msb, lsb := buf[0], buf[1]
	if d.lsbFirst {
		msb, lsb = lsb, msb
	}
	return int(msb)<<8 | int(lsb), nil
}

// ReadChunk drains up to max bytes from the stream register. The
// receiver fills short reads with 0xFF padding; enable the framer's
// filler drop to discard it.
func (d *I2C) ReadChunk(max int) ([]byte, error) {
	buf := make([]byte, max)
	if err := d.dev.Tx([]byte{regStream}, buf); err != nil {
		return nil, fmt.Errorf("ddc: read stream: %w", err)
	}
	return buf, nil
}

// Close releases the bus if this device opened it.
func (d *I2C) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}
