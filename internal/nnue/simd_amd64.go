//go:build amd64

package nnue

import "golang.org/x/sys/cpu"

// hasAVX2 is detected once at package init from golang.org/x/sys/cpu, the
// same feature-detection idiom klauspost/compress uses for its SIMD codecs.
// network.go never checks GOARCH or CPU features itself; it only ever
// calls dotI8I8Col1/dotI8I8Col2/dotI8I8, and this file picks which body
// they run.
var hasAVX2 = cpu.X86.HasAVX2

func dotI8I8Col1(input *[L1Size]int8, weight *[L1Size][L2Size]int8, col int) int32 {
	if hasAVX2 {
		return dotI8I8Col1Unrolled(input, weight, col)
	}
	return dotI8I8Col1Scalar(input, weight, col)
}

func dotI8I8Col2(input *[L2Size]int8, weight *[L2Size][L3Size]int8, col int) int32 {
	if hasAVX2 {
		return dotI8I8Col2Unrolled(input, weight, col)
	}
	return dotI8I8Col2Scalar(input, weight, col)
}

func dotI8I8(input *[L3Size]int8, weight *[L3Size]int8) int32 {
	if hasAVX2 {
		return dotI8I8Unrolled(input, weight)
	}
	return dotI8I8Scalar(input, weight)
}

// The "unrolled" variants below process 8 lanes per iteration, the width an
// AVX2 VPMADDUBSW+VPADDD reduction sequence would cover for this i8xi8->i32
// dot product; they stay in portable Go (no assembly) and are functionally
// identical to the scalar path, only reassociating the accumulation order.

func dotI8I8Col1Unrolled(input *[L1Size]int8, weight *[L1Size][L2Size]int8, col int) int32 {
	var sum int32
	j := 0
	for ; j+8 <= L1Size; j += 8 {
		sum += int32(input[j])*int32(weight[j][col]) +
			int32(input[j+1])*int32(weight[j+1][col]) +
			int32(input[j+2])*int32(weight[j+2][col]) +
			int32(input[j+3])*int32(weight[j+3][col]) +
			int32(input[j+4])*int32(weight[j+4][col]) +
			int32(input[j+5])*int32(weight[j+5][col]) +
			int32(input[j+6])*int32(weight[j+6][col]) +
			int32(input[j+7])*int32(weight[j+7][col])
	}
	for ; j < L1Size; j++ {
		sum += int32(input[j]) * int32(weight[j][col])
	}
	return sum
}

func dotI8I8Col2Unrolled(input *[L2Size]int8, weight *[L2Size][L3Size]int8, col int) int32 {
	var sum int32
	j := 0
	for ; j+8 <= L2Size; j += 8 {
		sum += int32(input[j])*int32(weight[j][col]) +
			int32(input[j+1])*int32(weight[j+1][col]) +
			int32(input[j+2])*int32(weight[j+2][col]) +
			int32(input[j+3])*int32(weight[j+3][col]) +
			int32(input[j+4])*int32(weight[j+4][col]) +
			int32(input[j+5])*int32(weight[j+5][col]) +
			int32(input[j+6])*int32(weight[j+6][col]) +
			int32(input[j+7])*int32(weight[j+7][col])
	}
	for ; j < L2Size; j++ {
		sum += int32(input[j]) * int32(weight[j][col])
	}
	return sum
}

func dotI8I8Unrolled(input *[L3Size]int8, weight *[L3Size]int8) int32 {
	var sum int32
	j := 0
	for ; j+8 <= L3Size; j += 8 {
		sum += int32(input[j])*int32(weight[j]) +
			int32(input[j+1])*int32(weight[j+1]) +
			int32(input[j+2])*int32(weight[j+2]) +
			int32(input[j+3])*int32(weight[j+3]) +
			int32(input[j+4])*int32(weight[j+4]) +
			int32(input[j+5])*int32(weight[j+5]) +
			int32(input[j+6])*int32(weight[j+6]) +
			int32(input[j+7])*int32(weight[j+7])
	}
	for ; j < L3Size; j++ {
		sum += int32(input[j]) * int32(weight[j])
	}
	return sum
}

func dotI8I8Col1Scalar(input *[L1Size]int8, weight *[L1Size][L2Size]int8, col int) int32 {
	var sum int32
	for j := 0; j < L1Size; j++ {
		sum += int32(input[j]) * int32(weight[j][col])
	}
	return sum
}

func dotI8I8Col2Scalar(input *[L2Size]int8, weight *[L2Size][L3Size]int8, col int) int32 {
	var sum int32
	for j := 0; j < L2Size; j++ {
		sum += int32(input[j]) * int32(weight[j][col])
	}
	return sum
}

func dotI8I8Scalar(input *[L3Size]int8, weight *[L3Size]int8) int32 {
	var sum int32
	for j := 0; j < L3Size; j++ {
		sum += int32(input[j]) * int32(weight[j])
	}
	return sum
}
