package store

import "context"

type Option func(*Options)

type Options struct {
	Location     string
	Collection   string
	ApiKey       string
	VectorSize   int
	SnapshotPath string
	Context      context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithCollection(collection string) Option {
	return func(o *Options) {
		o.Collection = collection
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

func WithSnapshotPath(path string) Option {
	return func(o *Options) {
		o.SnapshotPath = path
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection: "documents",
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
