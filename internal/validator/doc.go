// Package validator checks form input with composable rules and collects
// every failure instead of stopping at the first one.
//
//	err := validator.Apply(
//		validator.Required("username", username).WithMessage("You must provide a username."),
//		validator.MinLenString("username", username, 3),
//	)
//	if validator.IsValidationError(err) {
//		// render err.(validator.ValidationErrors).Messages()
//	}
package validator
