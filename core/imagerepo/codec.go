package imagerepo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/tiff"

	"github.com/wellquant/core/core/imagestack"
)

// Mask planes are stored as grayscale TIFF when they fit 8 or 16 bits
// (which compaction makes the common case), and as raw big-endian uint32
// otherwise. Intensity planes are stored as raw big-endian float64.

func encodeMaskPlane(plane []uint32, height int, width int, bits int) ([]byte, error) {
	switch bits {
	case 8:
		img := image.NewGray(image.Rect(0, 0, width, height))
		for i, v := range plane {
			img.Pix[i] = uint8(v)
		}
		var buf bytes.Buffer
		if err := tiff.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case 16:
		img := image.NewGray16(image.Rect(0, 0, width, height))
		for i, v := range plane {
			binary.BigEndian.PutUint16(img.Pix[i*2:], uint16(v))
		}
		var buf bytes.Buffer
		if err := tiff.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case 32:
		buf := make([]byte, len(plane)*4)
		for i, v := range plane {
			binary.BigEndian.PutUint32(buf[i*4:], v)
		}
		return buf, nil
	}

	return nil, fmt.Errorf("unsupported mask bit width %v", bits)
}

func decodeMaskPlane(data []byte, height int, width int, bits int) ([]uint32, error) {
	plane := make([]uint32, height*width)

	switch bits {
	case 8, 16:
		img, err := tiff.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		bounds := img.Bounds()
		if bounds.Dx() != width || bounds.Dy() != height {
			return nil, fmt.Errorf("mask plane is %vx%v, expected %vx%v", bounds.Dy(), bounds.Dx(), height, width)
		}
		switch px := img.(type) {
		case *image.Gray:
			for i, v := range px.Pix {
				plane[i] = uint32(v)
			}
		case *image.Gray16:
			for i := range plane {
				plane[i] = uint32(binary.BigEndian.Uint16(px.Pix[i*2:]))
			}
		default:
			return nil, fmt.Errorf("mask plane decoded to unexpected image type %T", img)
		}
		return plane, nil

	case 32:
		if len(data) != len(plane)*4 {
			return nil, fmt.Errorf("raw mask plane has %v bytes, expected %v", len(data), len(plane)*4)
		}
		for i := range plane {
			plane[i] = binary.BigEndian.Uint32(data[i*4:])
		}
		return plane, nil
	}

	return nil, fmt.Errorf("unsupported mask bit width %v", bits)
}

func encodeIntensityPlane(plane []float64) []byte {
	buf := make([]byte, len(plane)*8)
	for i, v := range plane {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeIntensityPlane(data []byte, planeSize int) ([]float64, error) {
	if len(data) != planeSize*8 {
		return nil, fmt.Errorf("intensity plane has %v bytes, expected %v", len(data), planeSize*8)
	}
	plane := make([]float64, planeSize)
	for i := range plane {
		plane[i] = math.Float64frombits(binary.BigEndian.Uint64(data[i*8:]))
	}
	return plane, nil
}

// encodeMask - one encoded blob per timepoint
func encodeMask(mask imagestack.LabelMask) ([][]byte, error) {
	planes := make([][]byte, mask.Timepoints)
	for t := 0; t < mask.Timepoints; t++ {
		data, err := encodeMaskPlane(mask.Plane(t), mask.Height, mask.Width, mask.Bits)
		if err != nil {
			return nil, err
		}
		planes[t] = data
	}
	return planes, nil
}
