// Package insights turns a finance.FinancialSummary into short narrative
// text. Local heuristics are always available; a Gemini-backed provider is
// tried first when an API key is configured and the local text is used
// whenever it fails.
package insights
