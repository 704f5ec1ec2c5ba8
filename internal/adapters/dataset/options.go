package dataset

import "github.com/grcup/apexcoach/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithTracks sets the allowed circuit names.
func WithTracks(tracks []string) Option {
	return func(l *Loader) {
		l.tracks = make(map[string]struct{}, len(tracks))
		for _, t := range tracks {
			l.tracks[t] = struct{}{}
		}
	}
}

// WithStrict makes any invalid row fail the whole load instead of
// being counted and skipped.
func WithStrict(strict bool) Option {
	return func(l *Loader) { l.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
