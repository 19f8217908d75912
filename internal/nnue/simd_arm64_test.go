//go:build arm64

package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNEONMatchesScalarARM64(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(99)

	var input [L1Size]int8
	for i := range input {
		input[i] = int8((i*37 - 19) % 127)
	}

	phase := &net.Phases[3]
	for col := 0; col < L2Size; col++ {
		require.Equal(t,
			dotI8I8Col1ScalarARM(&input, &phase.L1Weight, col),
			dotI8I8Col1NEON(&input, &phase.L1Weight, col))
	}

	var l3 [L3Size]int8
	for i := range l3 {
		l3[i] = int8(i*3 - 10)
	}
	require.Equal(t, dotI8I8ScalarARM(&l3, &phase.L3Weight), dotI8I8NEON(&l3, &phase.L3Weight))
}
