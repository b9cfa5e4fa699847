// Package snapshot persists simulated register state.
//
// A snapshot is the magic "NVS1", a big-endian uint16 register count, one
// big-endian (uint32 address, uint32 value) pair per register in ascending
// address order and a CRC-8 of everything before it.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sigurn/crc8"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/nvic/mmio"
)

var (
	ErrBadMagic = errors.New("not a register snapshot")
	ErrChecksum = errors.New("snapshot checksum mismatch")
	ErrTooLarge = errors.New("snapshot too large")
)

var magic = [4]byte{'N', 'V', 'S', '1'}

var table = crc8.MakeTable(crc8.CRC8)

// Encode serialises regs.
func Encode(regs map[uintptr]uint32) ([]byte, error) {
	if len(regs) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d registers", ErrTooLarge, len(regs))
	}
	addrs := maps.Keys(regs)
	slices.Sort(addrs)

	var buf bytes.Buffer
	buf.Write(magic[:])
	binary.Write(&buf, binary.BigEndian, uint16(len(addrs)))
	for _, addr := range addrs {
		if uint64(addr) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: address %#x", ErrTooLarge, addr)
		}
		binary.Write(&buf, binary.BigEndian, [2]uint32{uint32(addr), regs[addr]})
	}
	buf.WriteByte(crc8.Checksum(buf.Bytes(), table))
	return buf.Bytes(), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (map[uintptr]uint32, error) {
	if len(data) < len(magic)+3 || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, ErrBadMagic
	}
	body, sum := data[:len(data)-1], data[len(data)-1]
	if got := crc8.Checksum(body, table); got != sum {
		return nil, fmt.Errorf("%w: stored 0x%02x, computed 0x%02x", ErrChecksum, sum, got)
	}

	r := bytes.NewReader(body[len(magic):])
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if r.Len() != int(n)*8 {
		return nil, fmt.Errorf("%w: %d registers in %d bytes", io.ErrUnexpectedEOF, n, r.Len())
	}

	regs := make(map[uintptr]uint32, n)
	for i := 0; i < int(n); i++ {
		var pair [2]uint32
		if err := binary.Read(r, binary.BigEndian, &pair); err != nil {
			return nil, err
		}
		regs[uintptr(pair[0])] = pair[1]
	}
	return regs, nil
}

// Save writes the state of bank to path.
func Save(path string, bank *mmio.Bank) error {
	data, err := Encode(bank.Snapshot())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load restores bank from path. A missing file leaves bank untouched and is
// not an error.
func Load(path string, bank *mmio.Bank) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	regs, err := Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	bank.Restore(regs)
	return nil
}
