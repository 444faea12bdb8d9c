// Package validate coerces raw JSON values into bounded integers, integer
// arrays and strings.
//
// Values are expected as produced by encoding/json with UseNumber: numbers
// arrive as json.Number, arrays as []any. Go integer types and integral
// float64 values are accepted too so callers can pass native values directly.
//
// A numeric string is accepted only when its trimmed form is the canonical
// decimal rendering of the parsed integer: "12" and " 12 " pass, "012", "+12",
// "-0", "1e2" and "12abc" do not.
//
// Failures wrap ErrInvalidScalar or ErrInvalidArray; nothing here touches
// global state.
package validate
