package keycalc

// BuilderOption is an option used when creating a Builder.
type BuilderOption interface {
	builderOption()
}

type (
	maxlenopt int
	notifyopt func(expr, result string)
)

func (maxlenopt) builderOption() {}
func (notifyopt) builderOption() {}

// MaxLen limits the length of the expression text. Edits that would make the
// expression longer than n bytes are ignored. n <= 0 means no limit, which is
// the default.
func MaxLen(n int) BuilderOption {
	return maxlenopt(n)
}

// Notify sets a function to receive the expression text and result text after
// each event that changes either. This is how a display learns what to show.
// The function is called synchronously from the Builder method that handled
// the event, so it must not call back into the Builder.
func Notify(f func(expr, result string)) BuilderOption {
	return notifyopt(f)
}

// NewBuilder creates a Builder with an empty expression and applies options
// to it. Later options override earlier ones.
func NewBuilder(opts ...BuilderOption) *Builder {
	var b Builder
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case maxlenopt:
			b.max = int(opt)
		case notifyopt:
			b.notify = opt
		default:
			panic("keycalc: unknown option type")
		}
	}
	return &b
}
