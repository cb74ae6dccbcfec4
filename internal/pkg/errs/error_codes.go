/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Circle and Membership Business Logic Errors
const (
	// ErrNicknameEmpty indicates that the nickname sanitized to an empty string.
	ErrNicknameEmpty = 2101

	// ErrNicknameTaken indicates that another member of the circle already holds
	// the nickname under a different client token.
	ErrNicknameTaken = 2102
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
