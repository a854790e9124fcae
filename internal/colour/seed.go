package colour

import (
	"crypto/sha256"
	"encoding/binary"
	"image"
)

// ContentSeed generates a deterministic seed from image content.
// The dimensions and every pixel are hashed, so identical pixel data always
// produces the same seed regardless of filename or location.
func ContentSeed(img *image.NRGBA) int64 {
	bounds := img.Bounds()
	hasher := sha256.New()

	dimBytes := make([]byte, 8)
	binary.LittleEndian.PutUint32(dimBytes[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are safe to convert
	binary.LittleEndian.PutUint32(dimBytes[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are safe to convert
	hasher.Write(dimBytes)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		start := img.PixOffset(bounds.Min.X, y)
		hasher.Write(img.Pix[start : start+bounds.Dx()*4])
	}

	hash := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(hash[:8])) // #nosec G115 -- hash conversion is safe
}
