package ddc

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialConfig configures the UART transport.
type SerialConfig struct {
	Port string // e.g. /dev/serial0, /dev/ttyUSB0
	Baud uint   // zero means 9600, the NMEA default
}

// Serial reads the NMEA stream from a serial port. UARTs expose no
// pending-byte count, so Available always reports one and ReadChunk
// blocks until at least one byte arrives.
type Serial struct {
	port io.ReadWriteCloser
}

// OpenSerial opens the port in 8N1 mode.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = 9600
	}
	port, err := serial.Open(serial.OpenOptions{
		PortName:        cfg.Port,
		BaudRate:        baud,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("ddc: open serial port %s: %w", cfg.Port, err)
	}
	return &Serial{port: port}, nil
}

// Available always reports one pending byte; pacing comes from the
// blocking read.
func (s *Serial) Available() (int, error) { return 1, nil }

// ReadChunk reads whatever the port delivers, up to max bytes.
func (s *Serial) ReadChunk(max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := s.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("ddc: serial read: %w", err)
	}
	return buf[:n], nil
}

// Close closes the port.
func (s *Serial) Close() error { return s.port.Close() }
