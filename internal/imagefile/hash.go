package imagefile

import (
	"crypto/sha256"
	"fmt"
	"image"
	"math/bits"

	"github.com/vitali-fedulov/imagehash2"
	"github.com/vitali-fedulov/images4"
)

const (
	// imagehash2 parameters for hash table pre-filtering
	hashNumBuckets = 4
	hashEpsilon    = 0.25
)

// Icon returns the images4 icon used for near-duplicate checks.
func Icon(img image.Image) images4.IconT {
	return images4.Icon(img)
}

// NearDuplicate reports whether two icons are visually the same picture.
func NearDuplicate(a, b images4.IconT) bool {
	return images4.Similar(a, b)
}

// PerceptualHash returns the imagehash2 central hash of img.
func PerceptualHash(img image.Image) uint64 {
	return imagehash2.CentralHash9(images4.Icon(img), hashEpsilon, hashNumBuckets)
}

// HammingDistance counts differing bits between two hashes.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// FileHash returns the hex SHA-256 of raw file bytes.
func FileHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
