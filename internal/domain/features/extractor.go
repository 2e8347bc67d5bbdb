package features

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithTokenizer replaces the default comma tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(e *Extractor) {
		if t != nil {
			e.tokenizer = t
		}
	}
}

// WithClassifier replaces the default prefix classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Extractor) {
		if c != nil {
			e.classifier = c
		}
	}
}

// Extractor builds Features from label strings for a fixed category set.
type Extractor struct {
	categories []string
	tokenizer  Tokenizer
	classifier Classifier
}

// NewExtractor creates an extractor for categories using "," between tokens
// and ":" between a category and its value unless overridden.
func NewExtractor(categories []string, opts ...Option) *Extractor {
	e := &Extractor{
		categories: append([]string(nil), categories...),
		tokenizer:  DelimitedTokenizer{Delimiter: ","},
		classifier: NewPrefixClassifier(categories, ":"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Categories returns the categories every extracted Features carries.
func (e *Extractor) Categories() []string {
	return append([]string(nil), e.categories...)
}

// Extract parses label into Features. It never fails: tokens outside the
// known categories are ignored and absent categories map to empty lists.
func (e *Extractor) Extract(label string) Features {
	f := make(Features, len(e.categories))
	for _, c := range e.categories {
		f[c] = []string{}
	}

	for _, token := range e.tokenizer.Tokens(label) {
		category, value, ok := e.classifier.Classify(token)
		if !ok {
			continue
		}
		if _, known := f[category]; !known {
			continue
		}
		f[category] = append(f[category], value)
	}

	return f
}
