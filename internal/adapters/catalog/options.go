package catalog

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithRatings merges average ratings from the given CSV file.
func WithRatings(path string) Option {
	return func(l *Loader) {
		l.ratingsPath = path
	}
}

// WithRegionalTitles overrides primary titles with the regional variant
// found in the given akas CSV file for the given region code.
func WithRegionalTitles(path, region string) Option {
	return func(l *Loader) {
		if path != "" && region != "" {
			l.akasPath = path
			l.region = region
		}
	}
}

// WithExcludedGenres drops any movie carrying one of the given labels.
func WithExcludedGenres(labels []string) Option {
	return func(l *Loader) {
		l.excludedGenres = labels
	}
}
