package chromatic

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"genos/internal/engine"
)

// ChannelCount is the fixed genome length: red, green, blue.
const ChannelCount = 3

const channelMax = 255

// Genome is one candidate color. It captures the shared random source
// at construction so mutation and crossover draws stay on the engine's
// stream.
type Genome struct {
	channels []int
	rng      *rand.Rand
}

func NewGenome(channels []int, rng *rand.Rand) (*Genome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(channels) != ChannelCount {
		return nil, fmt.Errorf("expected %d channels, got %d", ChannelCount, len(channels))
	}
	for i, value := range channels {
		if value < 0 || value > channelMax {
			return nil, fmt.Errorf("channel %d out of range [0, %d]: %d", i, channelMax, value)
		}
	}
	return &Genome{channels: append([]int(nil), channels...), rng: rng}, nil
}

func RandomGenome(rng *rand.Rand) (*Genome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	channels := make([]int, ChannelCount)
	for i := range channels {
		channels[i] = rng.Intn(channelMax + 1)
	}
	return &Genome{channels: channels, rng: rng}, nil
}

// Mutate redraws one randomly chosen channel.
func (g *Genome) Mutate() {
	index := g.rng.Intn(len(g.channels))
	g.channels[index] = g.rng.Intn(channelMax + 1)
}

// CombineWith performs single-point crossover and returns two
// children. The cut keeps at least one channel from each side.
func (g *Genome) CombineWith(other engine.Solution) ([]engine.Solution, error) {
	partner, ok := other.(*Genome)
	if !ok {
		return nil, fmt.Errorf("cannot combine a color genome with %T: %w", other, engine.ErrInvalidArgument)
	}

	cut := 1 + g.rng.Intn(ChannelCount-1)
	first := make([]int, ChannelCount)
	second := make([]int, ChannelCount)
	copy(first, g.channels[:cut])
	copy(first[cut:], partner.channels[cut:])
	copy(second, partner.channels[:cut])
	copy(second[cut:], g.channels[cut:])

	return []engine.Solution{
		&Genome{channels: first, rng: g.rng},
		&Genome{channels: second, rng: g.rng},
	}, nil
}

func (g *Genome) Clone() engine.Solution {
	return &Genome{channels: append([]int(nil), g.channels...), rng: g.rng}
}

// Channels returns a copy of the channel values.
func (g *Genome) Channels() []int {
	return append([]int(nil), g.channels...)
}

func (g *Genome) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", g.channels[0], g.channels[1], g.channels[2])
}

// ParseHex converts a #rrggbb color into channel values.
func ParseHex(s string) ([]int, error) {
	trimmed := strings.TrimPrefix(s, "#")
	if len(trimmed) != 2*ChannelCount {
		return nil, fmt.Errorf("expected #rrggbb color, got %q", s)
	}
	channels := make([]int, ChannelCount)
	for i := range channels {
		value, err := strconv.ParseUint(trimmed[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("expected #rrggbb color, got %q", s)
		}
		channels[i] = int(value)
	}
	return channels, nil
}
