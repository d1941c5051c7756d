// Package errors provides the classified error primitives used across insightsite.
//
// A ClassifiedError carries a category, a severity, a retry strategy and a
// structured context map. Errors are created through the fluent ErrorBuilder:
//
//	err := errors.RemoteError("listing failed").
//		WithCause(cause).
//		WithContext("path", dir).
//		Build()
//
// HTTPErrorAdapter and CLIErrorAdapter translate classified errors into HTTP
// responses and process exit codes respectively.
package errors
