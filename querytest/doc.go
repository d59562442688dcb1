// Package querytest helps tests run database queries against a live postgres server:
// tests call PrepareTx to get a transaction that is rolled back on cleanup, then make
// assertions about its state with AssertCount and AssertNumRowsChanged.
package querytest
