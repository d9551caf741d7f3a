// Package loader provides object-image loading for LC-3 programs.
//
// An LC-3 object image is a contiguous big-endian byte stream: one word
// of origin — the address at which the payload begins — followed by zero
// or more payload words.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrImageFormat reports an image too short to contain an origin word.
var ErrImageFormat = errors.New("image has no origin word")

// MemorySize mirrors the machine's addressable word count; payload beyond
// it is silently discarded.
const MemorySize = 1 << 16

// Image represents a loaded object image ready for placement into the
// machine's memory.
type Image struct {
	// Origin is the word address at which the payload begins.
	Origin uint16

	// Words contains the payload, converted to host order.
	Words []uint16
}

// Load parses an LC-3 object image file and returns an Image ready for
// loading into the emulator's memory. A short or empty payload is not an
// error; payload past the end of the address space is discarded, as is a
// trailing odd byte.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses an object image from a stream. See Load.
func Read(r io.Reader) (*Image, error) {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFormat, err)
	}
	origin := binary.BigEndian.Uint16(originBuf[:])

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image payload: %w", err)
	}

	max := MemorySize - int(origin)
	count := len(payload) / 2
	if count > max {
		count = max
	}

	img := &Image{
		Origin: origin,
		Words:  make([]uint16, count),
	}
	for i := range img.Words {
		img.Words[i] = binary.BigEndian.Uint16(payload[2*i:])
	}

	return img, nil
}
