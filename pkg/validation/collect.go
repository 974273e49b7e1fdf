package validation

// Collect combines independently computed results for the SAME value
// (validated through several related shapes) with fail-on-any semantics:
// if any input failed, the output fails with the concatenation of every
// failed input's violations, in input order; if all inputs succeeded, the
// output succeeds with the LAST input's data.
//
// Collect is deliberately not a merge: callers passing results for different
// values get only the last value back. Keep it scoped to multi-shape checks
// of one object.
//
// Zero inputs yield a failure with a single generic violation; there is no
// vacuous success.
func Collect[T any](results ...Result[T]) Result[T] {
	if len(results) == 0 {
		return Fail[T](FieldError{Message: "no valid data found"})
	}
	var errs []FieldError
	for _, r := range results {
		if !r.Ok() {
			errs = append(errs, r.Errors()...)
		}
	}
	if len(errs) > 0 {
		return Fail[T](errs...)
	}
	return OK(results[len(results)-1].Data())
}
