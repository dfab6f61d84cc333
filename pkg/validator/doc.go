// Package validator builds declarative validation from small Rule values.
//
// Each rule pairs a Check func with the ValidationError reported when the
// check fails. Apply runs rules and aggregates failures into ValidationErrors,
// which implements error and can be recovered with ExtractValidationErrors:
//
//	err := validator.Apply(
//		validator.RequiredString("email", address),
//		validator.ValidEmail("email", address),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		msgs := verrs.Get("email")
//	}
//
// Rules hold no state and are safe for concurrent use.
package validator
