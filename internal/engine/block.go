// SPDX-License-Identifier: MIT
package engine

// Block is a channel-planar 2-D float buffer of shape channels x frames.
// The engine allocates one block per run sized for the worst case and
// reuses it for every processed block; no allocations happen inside the
// block loop.
type Block struct {
	data [][]float32
}

// NewBlock allocates a zeroed block. A single backing slice holds all
// channels to keep the per-run allocation count constant.
func NewBlock(channels, frames int) *Block {
	backing := make([]float32, channels*frames)
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return &Block{data: data}
}

// NumChannels reports the channel count the block was allocated with.
func (b *Block) NumChannels() int { return len(b.data) }

// NumFrames reports the per-channel sample capacity.
func (b *Block) NumFrames() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// Channel returns the sample slice of channel ch.
func (b *Block) Channel(ch int) []float32 { return b.data[ch] }

// Data returns all channel slices.
func (b *Block) Data() [][]float32 { return b.data }

// Clear zeroes every sample in every channel.
func (b *Block) Clear() {
	for _, ch := range b.data {
		clear(ch)
	}
}
