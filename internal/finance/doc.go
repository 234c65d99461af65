// Package finance turns raw order and cost rows into a FinancialSummary.
//
// # Architecture
//
// The pipeline is made of small pure functions, leaf first:
//
// 1. NormalizeAmount: currency-like cells ("$1,234.56", "--", numbers) to decimals
// 2. BucketDate: heterogeneous dates ("31-Aug-25", "2025-08-31") to a YearMonth
// 3. ClassifyOrder / Classifier.ClassifyCost: revenue and cost rules per source
// 4. Aggregate: folds classified rows into totals, monthly series and categories
// 5. AverageGrowth, ProjectRevenue, ProjectNarrative: trend and projection figures
//
// # Usage
//
//	summary := finance.Aggregate(orders, costs)
//	quick := finance.ProjectRevenue(summary)
//	narrative := finance.ProjectNarrative(summary)
//
// A different cost categorization strategy is selected with an Aggregator:
//
//	agg := finance.NewAggregator(finance.NewKeywordCategorizer(finance.DefaultKeywordRules()))
//	summary := agg.Aggregate(orders, costs)
//
// # Error Handling
//
// Nothing in this package returns an error for malformed data. Unparseable amounts
// and dates simply exclude a row (or its month) from aggregation.
package finance
