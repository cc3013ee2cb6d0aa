// Package shared holds helpers used across the bid comparison packages.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - NS 3459 XML and CSV bid fixtures (XMLBid, CSVBid, SimpleCSVBid)
//   - A buffered slog handler for asserting on log output
//
// Example usage:
//
//	func TestCompare(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.SimpleCSVBid([3]string{"01.01", "2", "100"})
//	    // ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "comparison complete")
//	}
package shared
