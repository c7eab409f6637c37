package ddc

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestI2CAvailable(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{regAvail}, R: []byte{0x01, 0x20}},
		},
		DontPanic: true,
	}
	d := NewI2C(bus, I2CConfig{})

	n, err := d.Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if n != 0x0120 {
		t.Errorf("pending = %#x, want 0x0120", n)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("unused playback ops: %v", err)
	}
}

func TestI2CAvailableLSBFirst(t *testing.T) {
	// Same wire bytes, opposite interpretation.
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{regAvail}, R: []byte{0x01, 0x20}},
		},
		DontPanic: true,
	}
	d := NewI2C(bus, I2CConfig{CountLSBFirst: true})

	n, err := d.Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if n != 0x2001 {
		t.Errorf("pending = %#x, want 0x2001", n)
	}
}

func TestI2CReadChunk(t *testing.T) {
	payload := []byte("$GNGGA,123519,4807.038,N\xff\xff")
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x43, W: []byte{regStream}, R: payload},
		},
		DontPanic: true,
	}
	d := NewI2C(bus, I2CConfig{Addr: 0x43})

	got, err := d.ReadChunk(len(payload))
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("chunk = %q, want %q", got, payload)
	}
}

func TestI2CDefaultAddr(t *testing.T) {
	// The playback bus rejects any transaction whose address does not
	// match the recorded op, so a pass proves the default took effect.
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{regAvail}, R: []byte{0x00, 0x00}},
		},
		DontPanic: true,
	}
	d := NewI2C(bus, I2CConfig{})

	n, err := d.Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}

func TestI2CCloseWithoutOwnership(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	d := NewI2C(bus, I2CConfig{})
	if err := d.Close(); err != nil {
		t.Errorf("Close on a borrowed bus: %v", err)
	}
}
