// Package loader reads program images: one word literal per line, or the
// brace initializer of a generated C++ header such as
//
//	static std::vector<std::uint32_t> testcase {
//		0b00000000000100000000000010010011
//	,	0b00000000001000000000000100010011
//	};
package loader

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ezrec/cosim/memory"
)

// Parse reads word literals in program order. Literals may be binary (0b),
// hex (0x), octal (0o) or decimal, separated by commas or whitespace, with
// optional C integer suffixes. // comments and # preprocessor lines are
// ignored; if an initializer is present, only the text between its braces
// is read.
func Parse(r io.Reader) (words []uint64, err error) {
	scanner := bufio.NewScanner(r)

	var lineno int
	var braced, closed bool
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if n := strings.Index(line, "//"); n >= 0 {
			line = line[:n]
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || closed {
			continue
		}

		if n := strings.Index(line, "{"); n >= 0 {
			if braced || strings.Count(line, "{") > 1 {
				err = errors.Wrapf(ErrBraces, "line %d", lineno)
				return
			}
			braced = true
			line = line[n+1:]
		}
		if n := strings.Index(line, "}"); n >= 0 {
			if !braced {
				err = errors.Wrapf(ErrBraces, "line %d", lineno)
				return
			}
			closed = true
			line = line[:n]
		}

		for _, field := range strings.FieldsFunc(line, isSeparator) {
			var word uint64
			word, err = parseWord(field)
			if err != nil {
				err = errors.Wrapf(err, "line %d: %q", lineno, field)
				return
			}
			words = append(words, word)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if braced && !closed {
		err = errors.Wrapf(ErrBraces, "line %d", lineno)
	}
	return
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}

func parseWord(text string) (word uint64, err error) {
	text = strings.TrimRight(text, "uUlL")
	word, err = strconv.ParseUint(text, 0, 64)
	if err != nil {
		err = ErrWordSyntax
	}
	return
}

// Load reads a program image file.
func Load(path string) (words []uint64, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	words, err = Parse(inf)
	if err != nil {
		err = errors.Wrap(err, path)
	}
	return
}

// Words narrows a program to the bus word type.
func Words[W memory.Word](words []uint64) (narrow []W, err error) {
	narrow = make([]W, len(words))
	for n, word := range words {
		narrow[n] = W(word)
		if uint64(narrow[n]) != word {
			return nil, errors.Wrapf(ErrWordRange, "word %d: %#x", n, word)
		}
	}
	return
}
