// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package multiplex

import (
	"math"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// testRegistry is a small device model covering every kind and default the
// codec distinguishes.
var testRegistry = NewRegistry(map[Register]RegisterInfo{
	0x000: {Name: "Mode", Kind: KindInt, Default: Int8},
	0x001: {Name: "Position", Kind: KindPosition, Default: Float32},
	0x002: {Name: "Velocity", Kind: KindVelocity, Default: Float32},
	0x003: {Name: "Torque", Kind: KindTorque, Default: Float32},
	0x00d: {Name: "Voltage", Kind: KindVoltage, Default: Int8},
	0x00e: {Name: "Temperature", Kind: KindTemperature, Default: Int8},
	0x00f: {Name: "Fault", Kind: KindInt, Default: Int8},
	0x020: {Name: "CommandPosition", Kind: KindPosition, Default: Float32},
	0x021: {Name: "CommandVelocity", Kind: KindVelocity, Default: Float32},
	0x022: {Name: "CommandFeedforwardTorque", Kind: KindTorque, Default: Float32},
	0x023: {Name: "CommandKpScale", Kind: KindPWM, Default: Float32},
	0x024: {Name: "CommandKdScale", Kind: KindPWM, Default: Float32},
	0x070: {Name: "MillisecondCounter", Kind: KindInt, Default: Int32},
	0x102: {Name: "RegisterMapVersion", Kind: KindInt, Default: Int32},
})

// getFuzzRounds returns the number of randomized rounds from FUZZ_ROUNDS, default 500
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 500
}

// newFuzzRng creates a seeded rng and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := time.Now().UnixNano()
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if s, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			seed = s
		}
	}
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestRandomizedWriteRoundTrip encodes random write batches and parses the
// payload back, checking every value survives within its resolution's
// precision.
func TestRandomizedWriteRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)

	mapped := []Register{0x001, 0x002, 0x003, 0x020, 0x021, 0x022, 0x023, 0x024}

	for round := 0; round < getFuzzRounds(); round++ {
		// Pick a random subset of mapped registers, each with a random
		// resolution and value.
		perm := rng.Perm(len(mapped))
		n := 1 + rng.Intn(len(mapped))

		b := NewBuilder(testRegistry)
		want := make(map[Register]struct {
			value float64
			res   Resolution
		})
		for _, idx := range perm[:n] {
			reg := mapped[idx]
			res := Resolution(rng.Intn(4))
			v := (rng.Float64() - 0.5) * 2
			if err := b.Add(WriteWith(reg, Float(v), res)); err != nil {
				t.Fatalf("round %d: add %s at %s: %v", round, reg, res, err)
			}
			want[reg] = struct {
				value float64
				res   Resolution
			}{v, res}
		}

		resp, err := Parse(b.Build(), testRegistry)
		if err != nil {
			t.Fatalf("round %d: parse: %v", round, err)
		}
		if len(resp) != len(want) {
			t.Fatalf("round %d: got %d registers, want %d", round, len(resp), len(want))
		}
		for reg, w := range want {
			got, ok := resp.Float64(reg)
			if !ok {
				t.Fatalf("round %d: register %s missing", round, reg)
			}
			tol := 1e-6
			if w.res != Float32 {
				info, _ := testRegistry.Lookup(reg)
				tol = info.Kind.scale(w.res)
			}
			if math.Abs(got-w.value) > tol {
				t.Errorf("round %d: register %s at %s: got %v, want %v (tol %v)",
					round, reg, w.res, got, w.value, tol)
			}
		}
	}
}
