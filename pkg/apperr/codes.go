package apperr

import "net/http"

// Stable error codes shared with API clients. Grouped by domain: account
// state, authentication, persistence, validation, general.
const (
	CodeAccountInactive      = "ACCOUNT_INACTIVE"
	CodeAccountBanned        = "ACCOUNT_BANNED"
	CodeAccountDormant       = "ACCOUNT_DORMANT"
	CodeAccountWithdrawn     = "ACCOUNT_WITHDRAWN"
	CodeUnknownAccountStatus = "UNKNOWN_ACCOUNT_STATUS"

	CodePasswordExpired    = "PASSWORD_EXPIRED"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeMissingCredential  = "MISSING_CREDENTIAL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserDataIncomplete = "USER_DATA_INCOMPLETE"
	CodeUnknownLoginType   = "UNKNOWN_LOGIN_TYPE"
	CodeUnauthorizedAccess = "UNAUTHORIZED_ACCESS"
	CodeUserNotFound       = "USER_NOT_FOUND"

	CodeLoginUpdateFailed = "LOGIN_UPDATE_FAILED"
	CodeDBError           = "DB_ERROR"

	CodeMissingField = "MISSING_FIELD"
	CodeInvalidInput = "INVALID_INPUT"

	CodeInternal = "INTERNAL_SERVER_ERROR"
)

func AccountInactive() *Error {
	return New(http.StatusForbidden, CodeAccountInactive, "account is inactive and requires reactivation")
}

func AccountBanned() *Error {
	return New(http.StatusForbidden, CodeAccountBanned, "account has been banned for policy violations")
}

func AccountDormant() *Error {
	return New(http.StatusForbidden, CodeAccountDormant, "account is dormant due to long inactivity")
}

func AccountWithdrawn() *Error {
	return New(http.StatusForbidden, CodeAccountWithdrawn, "account has been withdrawn")
}

func UnknownAccountStatus() *Error {
	return New(http.StatusInternalServerError, CodeUnknownAccountStatus, "unknown account status")
}

func PasswordExpired() *Error {
	return New(http.StatusForbidden, CodePasswordExpired, "password has expired and must be changed")
}

func UserAlreadyExists() *Error {
	return New(http.StatusConflict, CodeUserAlreadyExists, "a user with the same identity already exists")
}

func MissingCredential(message string) *Error {
	return New(http.StatusBadRequest, CodeMissingCredential, message)
}

func InvalidCredentials() *Error {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
}

func UserDataIncomplete() *Error {
	return New(http.StatusInternalServerError, CodeUserDataIncomplete, "user record is missing required data")
}

func UnknownLoginType() *Error {
	return New(http.StatusBadRequest, CodeUnknownLoginType, "unsupported login type")
}

func UnauthorizedAccess() *Error {
	return New(http.StatusUnauthorized, CodeUnauthorizedAccess, "authentication required")
}

func UserNotFound() *Error {
	return New(http.StatusNotFound, CodeUserNotFound, "user not found")
}

func LoginUpdateFailed(cause error) *Error {
	return New(http.StatusInternalServerError, CodeLoginUpdateFailed, "failed to record login").WithInternal(cause)
}

func DBError(cause error) *Error {
	return New(http.StatusInternalServerError, CodeDBError, "database operation failed").WithInternal(cause)
}

func MissingField(field string) *Error {
	return New(http.StatusBadRequest, CodeMissingField, "missing required field: "+field)
}

func InvalidInput(message string) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, message)
}

func Internal(cause error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, "internal server error").WithInternal(cause)
}
