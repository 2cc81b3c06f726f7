// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum accepted document size (1 MiB).
// Manifests are small; anything larger is almost certainly a mistake.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures a parse operation.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithMaxFileSize overrides the maximum accepted document size.
func WithMaxFileSize(size int64) Option {
	return func(o *options) {
		o.maxFileSize = size
	}
}

// WithConcrete requires all values to be concrete during validation.
func WithConcrete() Option {
	return func(o *options) {
		o.concrete = true
	}
}
