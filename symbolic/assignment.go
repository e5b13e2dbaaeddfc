package symbolic

import (
	"io"
	"maps"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ezrec/cosim/internal"
)

// Assignment maps symbolic input names to the values chosen on one path.
type Assignment map[string]uint64

// pathRecord is the on-disk form of a path. Values are strings since TOML
// integers cannot hold the upper half of uint64.
type pathRecord struct {
	Path     int               `toml:"path"`
	Failure  string            `toml:"failure,omitempty"`
	Symbolic map[string]string `toml:"symbolic"`
}

// Clone returns a copy of the assignment.
func (as Assignment) Clone() Assignment {
	return maps.Clone(as)
}

// Write saves the assignment of a path, with its failure message if any.
func (as Assignment) Write(w io.Writer, path int, failure string) (err error) {
	rec := pathRecord{
		Path:     path,
		Failure:  failure,
		Symbolic: make(map[string]string, len(as)),
	}
	for name, value := range internal.IterSorted(as) {
		rec.Symbolic[name] = "0x" + strconv.FormatUint(value, 16)
	}

	err = toml.NewEncoder(w).Encode(rec)
	if err != nil {
		err = errors.Wrap(err, f("path %d", path))
	}
	return
}

// ReadAssignment loads an assignment saved by Assignment.Write.
func ReadAssignment(r io.Reader) (as Assignment, err error) {
	var rec pathRecord
	_, err = toml.NewDecoder(r).Decode(&rec)
	if err != nil {
		err = errors.Wrap(err, f("assignment"))
		return
	}

	as = make(Assignment, len(rec.Symbolic))
	for name, text := range rec.Symbolic {
		var value uint64
		value, err = strconv.ParseUint(text, 0, 64)
		if err != nil {
			err = errors.Wrapf(ErrAssignmentValue, "%v = %q", name, text)
			return nil, err
		}
		as[name] = value
	}

	return
}
