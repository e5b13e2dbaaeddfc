package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeqConcat(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeqConcat(slices.Values([]int{1, 2}), slices.Values([]int{}), slices.Values([]int{3}))
	assert.Equal([]int{1, 2, 3}, slices.Collect(seq))

	var first []int
	for v := range seq {
		first = append(first, v)
		break
	}
	assert.Equal([]int{1}, first)
}

func TestIterSorted(t *testing.T) {
	assert := assert.New(t)

	m := map[uint32]string{12: "c", 4: "a", 8: "b"}

	var keys []uint32
	var vals []string
	for k, v := range IterSorted(m) {
		keys = append(keys, k)
		vals = append(vals, v)
	}

	assert.Equal([]uint32{4, 8, 12}, keys)
	assert.Equal([]string{"a", "b", "c"}, vals)
}

func TestIterFilter(t *testing.T) {
	assert := assert.New(t)

	even := IterFilter(slices.Values([]int{1, 2, 3, 4, 5, 6}), func(v int) bool { return v%2 == 0 })
	assert.Equal([]int{2, 4, 6}, slices.Collect(even))
}
