package chunker

type Option func(*Options)

type Options struct {
	ChunkSize int
	Overlap   int
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.Overlap = overlap
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		ChunkSize: 500,
		Overlap:   50,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
