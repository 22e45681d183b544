package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// MaxPacketSize bounds a single encoded packet.
	MaxPacketSize = 64 << 10

	// writeWait bounds every write so a peer that stops reading cannot
	// hold the writer forever.
	writeWait = 10 * time.Second
)

var ErrPacketTooLarge = errors.New("packet exceeds maximum size")

// WriteFrame writes a 4-byte big-endian length followed by the payload.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPacketSize {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(payload))
	}
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[4:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed payload. A clean EOF before the header
// is returned as io.EOF; a truncated frame as io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > MaxPacketSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// Conn carries packets over some transport. ReadPacket is called from one
// goroutine; WritePacket may be called concurrently.
type Conn interface {
	ReadPacket() (Packet, error)
	WritePacket(Packet) error
	Close() error
	RemoteAddr() string
}

// StreamConn frames packets over a byte stream such as TCP.
type StreamConn struct {
	conn net.Conn
	wmu  sync.Mutex
}

func NewStreamConn(c net.Conn) *StreamConn {
	return &StreamConn{conn: c}
}

func (c *StreamConn) ReadPacket() (Packet, error) {
	payload, err := ReadFrame(c.conn)
	if err != nil {
		return Packet{}, err
	}
	return Decode(payload)
}

func (c *StreamConn) WritePacket(p Packet) error {
	payload, err := Encode(p)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return WriteFrame(c.conn, payload)
}

func (c *StreamConn) Close() error       { return c.conn.Close() }
func (c *StreamConn) RemoteAddr() string { return c.conn.RemoteAddr().String() }

// WSConn carries one packet per binary websocket message.
type WSConn struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func NewWSConn(c *websocket.Conn) *WSConn {
	c.SetReadLimit(MaxPacketSize)
	return &WSConn{conn: c}
}

func (c *WSConn) ReadPacket() (Packet, error) {
	for {
		kind, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Packet{}, io.EOF
			}
			if errors.Is(err, websocket.ErrReadLimit) {
				return Packet{}, fmt.Errorf("%w: %v", ErrPacketTooLarge, err)
			}
			return Packet{}, err
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		return Decode(payload)
	}
}

func (c *WSConn) WritePacket(p Packet) error {
	payload, err := Encode(p)
	if err != nil {
		return err
	}
	if len(payload) > MaxPacketSize {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(payload))
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, payload)
}

// Close may run alongside a blocked WritePacket; WriteControl does not need
// wmu and closing the socket fails the stuck write.
func (c *WSConn) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *WSConn) RemoteAddr() string { return c.conn.RemoteAddr().String() }
