package loader

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Raw(t *testing.T) {
	assert := assert.New(t)

	words, err := Parse(strings.NewReader(`
	0b00000000000100000000000010010011
	0x00200113,
// store
	1122339 // decimal
	0o163u
`))
	assert.NoError(err)
	assert.Equal([]uint64{0x00100093, 0x00200113, 0x00112023, 0x73}, words)
}

func TestParse_Header(t *testing.T) {
	assert := assert.New(t)

	words, err := Parse(strings.NewReader(`#pragma once
#include <vector>
static std::vector<std::uint32_t> testcase {
	0b00000000000100000000000010010011
,	0b00000000001000000000000100010011
};
`))
	assert.NoError(err)
	assert.Equal([]uint64{0x00100093, 0x00200113}, words)

	words, err = Parse(strings.NewReader("int x[] = {1, 2, 3};\n4\n"))
	assert.NoError(err)
	assert.Equal([]uint64{1, 2, 3}, words)
}

func TestParse_Empty(t *testing.T) {
	assert := assert.New(t)

	words, err := Parse(strings.NewReader("// nothing\n\n"))
	assert.NoError(err)
	assert.Empty(words)
}

func TestParse_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(strings.NewReader("0x10\n0b102\n"))
	assert.ErrorIs(err, ErrWordSyntax)
	assert.Contains(err.Error(), "line 2")
	assert.Equal(ErrWordSyntax, errors.Cause(err))

	_, err = Parse(strings.NewReader("{ 1, 2\n"))
	assert.ErrorIs(err, ErrBraces)

	_, err = Parse(strings.NewReader("1 }\n"))
	assert.ErrorIs(err, ErrBraces)

	_, err = Parse(strings.NewReader("{ 1 {\n"))
	assert.ErrorIs(err, ErrBraces)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	words, err := Load("../examples/toycore/program.txt")
	require.NoError(err)
	assert.Equal([]uint64{0x00100093, 0x00200113, 0x00112023, 0x00000073}, words)

	_, err = Load("testdata/nonesuch.txt")
	assert.Error(err)
}

func TestWords(t *testing.T) {
	assert := assert.New(t)

	narrow, err := Words[uint32]([]uint64{1, 0xffffffff})
	assert.NoError(err)
	assert.Equal([]uint32{1, 0xffffffff}, narrow)

	_, err = Words[uint32]([]uint64{1, 0x100000000})
	assert.ErrorIs(err, ErrWordRange)

	wide, err := Words[uint64]([]uint64{0x100000000})
	assert.NoError(err)
	assert.Equal([]uint64{0x100000000}, wide)
}
