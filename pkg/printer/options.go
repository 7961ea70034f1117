package printer

import (
	"errors"
	"fmt"
)

// QuoteStyle selects the delimiter of printed string literals.
type QuoteStyle string

// Quote styles.
const (
	QuoteSingle QuoteStyle = "single"
	QuoteDouble QuoteStyle = "double"
	// QuotePreserve keeps parsed literals as written. Synthetic literals
	// use single quotes.
	QuotePreserve QuoteStyle = "preserve"
)

// Fidelity selects how much of the original layout survives printing.
type Fidelity string

// Fidelity levels.
const (
	// FidelityFull keeps comments and whitespace.
	FidelityFull Fidelity = "full"
	// FidelityNoComments drops comments together with the text leading up to them.
	FidelityNoComments Fidelity = "no-comments"
)

var (
	errUnknownQuoteStyle = errors.New("unknown quote style")
	errUnknownFidelity   = errors.New("unknown fidelity")
)

// Options controls printing.
type Options struct {
	Quote    QuoteStyle `mapstructure:"quote"    yaml:"quote"`
	Fidelity Fidelity   `mapstructure:"fidelity" yaml:"fidelity"`
}

// DefaultOptions prints single-quoted strings and keeps comments.
func DefaultOptions() Options {
	return Options{Quote: QuoteSingle, Fidelity: FidelityFull}
}

// ParseQuoteStyle validates a quote style name.
func ParseQuoteStyle(name string) (QuoteStyle, error) {
	switch style := QuoteStyle(name); style {
	case QuoteSingle, QuoteDouble, QuotePreserve:
		return style, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownQuoteStyle, name)
	}
}

// ParseFidelity validates a fidelity level name.
func ParseFidelity(name string) (Fidelity, error) {
	switch level := Fidelity(name); level {
	case FidelityFull, FidelityNoComments:
		return level, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownFidelity, name)
	}
}

// Validate checks the options. Empty fields take their defaults.
func (opts Options) Validate() error {
	if opts.Quote != "" {
		if _, err := ParseQuoteStyle(string(opts.Quote)); err != nil {
			return err
		}
	}

	if opts.Fidelity != "" {
		if _, err := ParseFidelity(string(opts.Fidelity)); err != nil {
			return err
		}
	}

	return nil
}

func (opts Options) withDefaults() Options {
	def := DefaultOptions()

	if opts.Quote == "" {
		opts.Quote = def.Quote
	}

	if opts.Fidelity == "" {
		opts.Fidelity = def.Fidelity
	}

	return opts
}

// quoteChar returns the delimiter for newly generated literals.
func (opts Options) quoteChar() byte {
	if opts.Quote == QuoteDouble {
		return '"'
	}

	return '\''
}
