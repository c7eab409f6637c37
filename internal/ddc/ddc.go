// Package ddc reads the raw NMEA byte stream from a GNSS receiver.
//
// The primary transport is the u-blox DDC (I2C) port of the ZED-F9R:
// the receiver exposes a 16-bit pending-byte count at registers
// 0xFD/0xFE and the stream itself at register 0xFF. A serial UART
// source is provided for receivers wired over a serial port.
package ddc

// Source yields bytes from a receiver. Reads are independent attempts;
// a failed read carries no state into the next one.
type Source interface {
	// Available reports how many stream bytes the receiver has pending.
	// Transports without a pending count report a positive guess.
	Available() (int, error)
	// ReadChunk reads up to max bytes. The result may be shorter and
	// may contain 0xFF idle padding.
	ReadChunk(max int) ([]byte, error)
	Close() error
}
