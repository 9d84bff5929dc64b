package model

// MonkeyTypeData is the best typing-test result shown on the site.
// Acc, Consistency, and WPM are rounded to whole numbers.
type MonkeyTypeData struct {
	Acc         int
	Consistency int
	Language    string
	Time        int // Test duration in seconds.
	WPM         int
}

// TypingResult is a single personal-best record as reported upstream, tagged
// with the time-mode bucket it came from.
type TypingResult struct {
	WPM         float64
	Acc         float64
	Consistency float64
	Language    string
	Time        int
}
