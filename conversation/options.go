package conversation

import "context"

const defaultSystemPreamble = "You are a helpful assistant answering questions about uploaded documents. Use the provided document context and the conversation so far; when the context does not contain the answer, say so instead of guessing."

type Option func(*Options)

type Options struct {
	MaxContextLength int
	MaxTokens        int
	SystemPreamble   string
	Context          context.Context
}

func WithMaxContextLength(length int) Option {
	return func(o *Options) {
		o.MaxContextLength = length
	}
}

func WithMaxTokens(tokens int) Option {
	return func(o *Options) {
		o.MaxTokens = tokens
	}
}

func WithSystemPreamble(preamble string) Option {
	return func(o *Options) {
		o.SystemPreamble = preamble
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxContextLength: 10,
		MaxTokens:        4000,
		SystemPreamble:   defaultSystemPreamble,
		Context:          context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
