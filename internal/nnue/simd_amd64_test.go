//go:build amd64

package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnrolledMatchesScalarAMD64(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(99)

	var input [L1Size]int8
	for i := range input {
		input[i] = int8((i*37 - 19) % 127)
	}

	phase := &net.Phases[3]
	for col := 0; col < L2Size; col++ {
		require.Equal(t,
			dotI8I8Col1Scalar(&input, &phase.L1Weight, col),
			dotI8I8Col1Unrolled(&input, &phase.L1Weight, col))
	}

	var l2 [L2Size]int8
	for i := range l2 {
		l2[i] = int8(i*5 - 40)
	}
	for col := 0; col < L3Size; col++ {
		require.Equal(t,
			dotI8I8Col2Scalar(&l2, &phase.L2Weight, col),
			dotI8I8Col2Unrolled(&l2, &phase.L2Weight, col))
	}

	var l3 [L3Size]int8
	for i := range l3 {
		l3[i] = int8(i*3 - 10)
	}
	require.Equal(t, dotI8I8Scalar(&l3, &phase.L3Weight), dotI8I8Unrolled(&l3, &phase.L3Weight))
}
