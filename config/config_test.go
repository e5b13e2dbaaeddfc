package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/cosim/bus"
	"github.com/ezrec/cosim/invariant"
	"github.com/ezrec/cosim/model"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.NoError(cfg.Validate())
	assert.Equal(4, cfg.Cycles)
	assert.Equal(uint(32), cfg.Width)
	assert.Equal(uint64(4), cfg.ProgramBase)
	assert.Equal(uint64(4), cfg.ProgramStride)
	assert.Equal("mepc", cfg.Observe)
	assert.Equal([]string{"mepc", "priv_stack", "x1", "x2"}, cfg.Print)

	policy, err := cfg.Policy()
	assert.NoError(err)
	assert.Equal(bus.RedriveNonZero, policy)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg, err := Decode(strings.NewReader(`
cycles = 10
width = 64
redrive = "always"
strict = true
print = ["x1"]

[pins]
htif_reset = 1
htif_id = 3

[[invariant]]
message = "pc aligned"
expr = "mepc & 3 == 0"

[[invariant]]
expr = "x1 != 0"
`))
	require.NoError(err)

	assert.Equal(10, cfg.Cycles)
	assert.Equal(uint(64), cfg.Width)
	assert.Equal(uint64(4), cfg.ProgramBase)
	assert.True(cfg.Strict)
	assert.Equal([]string{"x1"}, cfg.Print)
	assert.Equal(map[string]uint64{"htif_reset": 1, "htif_id": 3}, cfg.Pins)
	assert.Len(cfg.Invariants, 2)

	policy, err := cfg.Policy()
	assert.NoError(err)
	assert.Equal(bus.RedriveAlways, policy)

	checker, err := cfg.Checker()
	require.NoError(err)
	require.Len(checker.Predicates, 4)
	assert.Equal(invariant.ReservedMode2, checker.Predicates[0])
	assert.Equal(invariant.ReservedMode1, checker.Predicates[1])
	assert.Equal("pc aligned", checker.Predicates[2].Message())
	assert.Equal("x1 != 0", checker.Predicates[3].Message())

	pins, err := model.Standard(64)
	require.NoError(err)
	require.NoError(cfg.Drive(pins))
	assert.Equal(uint64(1), pins.Value(model.PIN_RESET))
	assert.Equal(uint64(1), pins.Value(model.PIN_ID))
}

func TestDecode_Errors(t *testing.T) {
	assert := assert.New(t)

	for text, want := range map[string]error{
		"cycles = -1":                    ErrCycles,
		"width = 16":                     ErrWidth,
		"program_stride = 0":             ErrStride,
		`redrive = "sometimes"`:          bus.ErrPolicyUnknown,
		"cylces = 4":                     ErrUnknownKey,
		"[[invariant]]\nmessage = \"x\"": ErrInvariant,
	} {
		_, err := Decode(strings.NewReader(text))
		assert.ErrorIs(err, want, text)
	}

	_, err := Decode(strings.NewReader("cycles = "))
	assert.Error(err)
}

func TestConfig_DriveUnknown(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	cfg.Pins = map[string]uint64{"nonesuch": 1}

	pins, err := model.Standard(32)
	assert.NoError(err)
	assert.ErrorIs(cfg.Drive(pins), model.ErrPinUnknown)

	cfg.Pins = map[string]uint64{model.PIN_IMEM_HADDR: 1}
	assert.ErrorIs(cfg.Drive(pins), model.ErrPinDirection)
}

func TestConfig_CheckerBadExpr(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	cfg.Invariants = []Invariant{{Expr: "mepc <"}}
	_, err := cfg.Checker()
	var ee *invariant.ErrExpr
	assert.ErrorAs(err, &ee)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg, err := Load("../examples/toycore/cosim.toml")
	require.NoError(err)
	assert.Equal(4, cfg.Cycles)
	assert.Equal([]string{"mepc", "priv_stack", "x1", "x2"}, cfg.Print)

	_, err = Load("testdata/nonesuch.toml")
	assert.Error(err)
}
