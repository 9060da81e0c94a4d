// Package record defines the FinancialRecord value type and the validator that
// turns untyped field pairs read from CSV rows or JSON items into records.
//
// Validation failures are row-level: Validator.Check logs the offending raw
// values and reports false so the caller can skip the row and keep reading.
package record
