package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures at the request boundary. Every typed error
// raised by a use case carries exactly one of these tags; the HTTP layer maps
// them to status codes without inspecting messages.
var (
	// ErrTagNotFound marks errors for absent entities (invite, user, post, setting)
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagUnauthorized marks failed or missing authentication
	ErrTagUnauthorized = goerr.NewTag("unauthorized")

	// ErrTagNoPermission marks authenticated but under-privileged requests
	ErrTagNoPermission = goerr.NewTag("no_permission")

	// ErrTagValidation marks malformed or missing required input
	ErrTagValidation = goerr.NewTag("validation")

	// ErrTagTokenRevocation marks revocation attempts that exhausted all providers
	ErrTagTokenRevocation = goerr.NewTag("token_revocation")

	// ErrTagInternal marks unexpected transport or configuration-reload failures
	ErrTagInternal = goerr.NewTag("internal")
)

// AsNotFound wraps err as a NotFound-tagged error with a stable message
func AsNotFound(msg string, options ...goerr.Option) error {
	return goerr.New(msg, append(options, goerr.T(ErrTagNotFound))...)
}

// AsUnauthorized wraps err as an Unauthorized-tagged error
func AsUnauthorized(msg string, options ...goerr.Option) error {
	return goerr.New(msg, append(options, goerr.T(ErrTagUnauthorized))...)
}

// AsNoPermission wraps err as a NoPermission-tagged error
func AsNoPermission(msg string, options ...goerr.Option) error {
	return goerr.New(msg, append(options, goerr.T(ErrTagNoPermission))...)
}

// AsValidation wraps err as a Validation-tagged error
func AsValidation(msg string, options ...goerr.Option) error {
	return goerr.New(msg, append(options, goerr.T(ErrTagValidation))...)
}
