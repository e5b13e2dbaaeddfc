// Package translate formats user-facing harness messages through a
// locale-aware printer.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("cosim: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Bits renders value as a zero-padded binary string of width bits.
// Digits are never grouped, whatever the locale.
func Bits(value uint64, width uint) (text string) {
	if width == 0 || width > 64 {
		width = 64
	}
	buf := make([]byte, width)
	for n := range width {
		bit := (value >> (width - 1 - n)) & 1
		buf[n] = '0' + byte(bit)
	}
	text = string(buf)
	return
}
