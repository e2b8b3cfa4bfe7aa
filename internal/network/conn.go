// Package network drives the stream cipher over a TCP connection.
package network

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/maple-msb/internal/logger"
	"github.com/Faultbox/maple-msb/internal/network/packets"
	"github.com/Faultbox/maple-msb/pkg/maplecrypt"
)

// DefaultMaxFrameSize bounds the payload length accepted from the peer.
const DefaultMaxFrameSize = 1 << 20

var (
	// ErrFrameTooLarge is returned when the peer announces a payload above
	// the configured limit.
	ErrFrameTooLarge = errors.New("network: frame too large")
	// ErrShortPacket is returned by Dispatch for payloads without an opcode.
	ErrShortPacket = errors.New("network: packet shorter than opcode")
)

// Handler handles a decrypted payload, opcode included.
type Handler func(payload []byte) error

// Options configures both cipher directions of a Conn.
type Options struct {
	Version uint32
	SendIV  uint32
	RecvIV  uint32
	BlockIV uint32

	MaxFrameSize int
	Logger       *zap.Logger
}

// Conn is an encrypted framed connection. Reads and writes may run
// concurrently; each direction owns its cipher state.
type Conn struct {
	conn     net.Conn
	log      *zap.Logger
	maxFrame int

	sendMu sync.Mutex
	enc    *maplecrypt.Encryptor

	recvMu sync.Mutex
	dec    *maplecrypt.Decryptor
	rbuf   []byte

	handlersMu sync.RWMutex
	handlers   map[uint16]Handler
}

// Dial connects to addr over TCP.
func Dial(ctx context.Context, addr string, opts Options) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return NewConn(conn, opts), nil
}

// NewConn wraps an established connection.
func NewConn(conn net.Conn, opts Options) *Conn {
	if opts.MaxFrameSize <= 0 {
		opts.MaxFrameSize = DefaultMaxFrameSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("network")
	}

	return &Conn{
		conn:     conn,
		log:      log.With(zap.Stringer("remote", conn.RemoteAddr())),
		maxFrame: opts.MaxFrameSize,
		enc:      maplecrypt.NewEncryptor(opts.Version, opts.SendIV, opts.BlockIV),
		dec:      maplecrypt.NewDecryptor(opts.Version, opts.RecvIV, opts.BlockIV),
		handlers: make(map[uint16]Handler),
	}
}

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// WritePacket encrypts payload into one frame and writes it.
func (c *Conn) WritePacket(payload []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	frame := c.enc.Encrypt(payload)
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	c.log.Debug("sent packet", zap.Int("size", len(payload)), zap.Uint32("iv", c.enc.IV()))
	return nil
}

// ReadPacket blocks until one complete frame has arrived and returns its
// decrypted payload. Bytes past the frame are kept for the next call.
func (c *Conn) ReadPacket() ([]byte, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	chunk := make([]byte, 4096)
	for {
		plain, n, err := c.dec.TryDecrypt(c.rbuf)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			c.rbuf = append(c.rbuf[:0], c.rbuf[n:]...)
			return plain, nil
		}

		if len(c.rbuf) >= maplecrypt.HeaderSize {
			size := int32(binary.LittleEndian.Uint32(c.rbuf[2:]))
			if int(size) > c.maxFrame {
				return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
			}
		}

		read, err := c.conn.Read(chunk)
		c.rbuf = append(c.rbuf, chunk[:read]...)
		if err != nil {
			if errors.Is(err, io.EOF) && len(c.rbuf) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}

// RegisterHandler registers a handler for an opcode, replacing any
// previous one.
func (c *Conn) RegisterHandler(opcode uint16, handler Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[opcode] = handler
}

// Dispatch calls the handler registered for the payload's opcode. Payloads
// without a handler are dropped.
func (c *Conn) Dispatch(payload []byte) error {
	opcode, ok := packets.Opcode(payload)
	if !ok {
		return ErrShortPacket
	}

	c.handlersMu.RLock()
	handler := c.handlers[opcode]
	c.handlersMu.RUnlock()

	if handler == nil {
		c.log.Debug("unhandled packet", zap.Uint16("opcode", opcode), zap.Int("size", len(payload)))
		return nil
	}
	if err := handler(payload); err != nil {
		return fmt.Errorf("handling opcode %#x: %w", opcode, err)
	}
	return nil
}

// Serve reads and dispatches packets until the peer closes the connection,
// ctx is cancelled or a handler fails. A clean close returns nil.
func (c *Conn) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		payload, err := c.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := c.Dispatch(payload); err != nil {
			return err
		}
	}
}
