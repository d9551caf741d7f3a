// Package console adapts the host terminal to the simulator's polled
// keyboard contract. It switches stdin to raw mode on open, pumps bytes
// into a channel from a single reader goroutine, and restores the prior
// terminal state on close.
package console

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/sarchlab/m2sim/emu"
)

// interruptByte is what the raw-mode tty delivers for Ctrl-C. Raw mode
// suppresses the kernel's ISIG handling, so the console re-raises it as a
// signal to keep a single interrupt path.
const interruptByte = 0x03

// Console is a raw-mode stdin adapter. KeyReady and ReadKey are meant to
// be called from the single emulator goroutine; they are not safe for
// concurrent use with each other.
type Console struct {
	in   *os.File
	fd   int
	prev *term.State

	keys       chan byte
	pending    byte
	hasPending bool

	restoreOnce sync.Once
}

// New switches stdin to raw mode and starts the reader. The caller must
// arrange for Restore to run on every exit path.
func New() (*Console, error) {
	in := os.Stdin
	fd := int(in.Fd())

	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	c := &Console{
		in:   in,
		fd:   fd,
		prev: prev,
		keys: make(chan byte, 64),
	}
	go c.pump()

	return c, nil
}

// Restore returns the terminal to the state it had before New. It is
// idempotent and safe to call from a signal handler goroutine.
func (c *Console) Restore() {
	c.restoreOnce.Do(func() {
		_ = term.Restore(c.fd, c.prev)
	})
}

// KeyReady reports whether a byte is available without blocking.
func (c *Console) KeyReady() bool {
	if c.hasPending {
		return true
	}
	select {
	case b, ok := <-c.keys:
		if !ok {
			return false
		}
		c.pending = b
		c.hasPending = true
		return true
	default:
		return false
	}
}

// ReadKey reads one byte, blocking until one is available. A closed
// stdin reads as NUL.
func (c *Console) ReadKey() byte {
	if c.hasPending {
		c.hasPending = false
		return c.pending
	}
	b, ok := <-c.keys
	if !ok {
		return 0
	}
	return b
}

// pump moves stdin bytes into the key channel one at a time. Ctrl-C is
// re-raised as os.Interrupt instead of being delivered to the guest.
func (c *Console) pump() {
	var buf [1]byte
	for {
		n, err := c.in.Read(buf[:])
		if n == 1 {
			if buf[0] == interruptByte {
				raiseInterrupt()
			} else {
				c.keys <- buf[0]
			}
		}
		if err != nil {
			close(c.keys)
			return
		}
	}
}

func raiseInterrupt() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(os.Interrupt)
}

var _ emu.Keyboard = (*Console)(nil)
