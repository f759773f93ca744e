package driven

// TokenCounter counts model tokens in text.
type TokenCounter interface {
	// CountTokens returns the number of tokens text encodes to.
	CountTokens(text string) (int, error)

	// Encoding returns the name of the encoding in use.
	Encoding() string
}
