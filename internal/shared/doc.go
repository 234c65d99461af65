// Package shared holds helpers used across packages that belong to no single
// layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output, and CSV fixtures shaped like the payments and supplier exports
// the analyzer ingests:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := services.NewAnalysisService(..., logger)
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
