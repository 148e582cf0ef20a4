package sink

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
)

const (
	mtsSignature = "MTSM"
	mtsVersion   = 1
)

// RenderMTS renders g as a version 1 Minetest schematic.
func RenderMTS(g *grid.Grid) ([]byte, error) {
	w, h := g.Dimensions()
	if w > math.MaxInt16 || h > math.MaxInt16 {
		return nil, errors.New(errors.ErrCodeOutOfRange, "grid %dx%d exceeds the MTS size limit of %d", w, h, math.MaxInt16)
	}

	var buf bytes.Buffer
	buf.WriteString(mtsSignature)
	header := []any{
		uint16(mtsVersion),
		int16(h), int16(2), int16(w),
		uint16(len(nodeIDs)),
	}
	for _, v := range header {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	for _, n := range nodeIDs {
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(n)))
		buf.WriteString(n)
	}

	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	var tmp [2]byte
	err = forEachNode(g, func(name string, _ uint8) error {
		binary.BigEndian.PutUint16(tmp[:], nodeIndex[name])
		_, err := zw.Write(tmp[:])
		return err
	})
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(make([]byte, 2*w*h)); err != nil {
		return nil, err
	}
	err = forEachNode(g, func(_ string, p2 uint8) error {
		_, err := zw.Write([]byte{p2})
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
