// Package texcache caches the procedurally synthesized textures the
// renderers are built on. Continuous shape parameters are quantized into
// buckets before they become part of a key, which keeps the key space small
// and bounded by the configurations the active states actually exercise.
//
// All reads and writes go through Cache.GetOrCreate; nothing else touches
// the memory layer. An optional persistent Store is consulted read-through
// and populated write-through, and any Store failure is downgraded to a
// cache miss.
package texcache

import (
	"fmt"
	"math"
)

// Kind discriminates texture families so identical dimensions from
// different renderers never collide.
type Kind string

const (
	KindEyeGlow Kind = "eye_glow"
	KindEyeArc  Kind = "eye_arc"
)

// RGB is the color part of a key. Alpha never participates in keying.
type RGB struct {
	R, G, B uint8
}

func (c RGB) hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// Key describes one deterministic texture. Width and Height are the
// unblinked eye box; blink and intensity enter only through their buckets.
type Key struct {
	Kind            Kind
	Width           int
	Height          int
	Color           RGB
	Layers          int
	BlinkBucket     int // percent openness reduction, quantized to 5
	IntensityBucket int // intensity * 100, rounded
}

// BucketBlink quantizes a blink amount in [0,1] to the nearest 0.05,
// expressed in percent (0, 5, ... 100).
func BucketBlink(amount float64) int {
	if amount < 0 {
		amount = 0
	}
	if amount > 1 {
		amount = 1
	}
	return int(math.Round(amount*20)) * 5
}

// BucketIntensity quantizes an intensity to 2 decimal places, expressed in
// hundredths.
func BucketIntensity(intensity float64) int {
	if intensity < 0 {
		intensity = 0
	}
	return int(math.Round(intensity * 100))
}

// BlinkAmount converts a blink bucket back to the quantized amount that
// factories must synthesize from, so key and content always agree.
func (k Key) BlinkAmount() float64 {
	return float64(k.BlinkBucket) / 100
}

// Intensity converts the intensity bucket back to the quantized value.
func (k Key) Intensity() float64 {
	return float64(k.IntensityBucket) / 100
}

// ID is the stable, filename-safe identity of the key. It is what the
// memory map and every Store adapter key on.
func (k Key) ID() string {
	return fmt.Sprintf("%s_%dx%d_%s_l%d_b%03d_i%03d",
		k.Kind, k.Width, k.Height, k.Color.hex(), k.Layers, k.BlinkBucket, k.IntensityBucket)
}

// Valid rejects keys that could never produce a drawable texture.
func (k Key) Valid() bool {
	return k.Width > 0 && k.Height > 0 && k.Layers > 0
}
