package tgCallback

// Callbacks buttons prefixes
const (
	DetectAgain string = "detect_again" // ждать новую выписку
	QuoteAgain  string = "quote_again"

	RefreshQuotePrefix string = "refresh_quote:"
)
