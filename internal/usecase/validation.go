package usecase

import "errors"

// Required-field sentinels. Services return these when a payload omits a
// mandatory field so handlers can map the failure to a field-level 4xx.
var (
	// ErrIdentifierRequired indicates a login payload without an identifier.
	ErrIdentifierRequired = errors.New("identifier is required")
	// ErrUsernameRequired indicates a user payload without a username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrEmailRequired indicates a user payload without an email.
	ErrEmailRequired = errors.New("email is required")
	// ErrCodeRequired indicates a college or department payload without a code.
	ErrCodeRequired = errors.New("code is required")
	// ErrNameRequired indicates a college or department payload without a name.
	ErrNameRequired = errors.New("name is required")
	// ErrDepartmentRequired indicates a partnership payload without an owning
	// department.
	ErrDepartmentRequired = errors.New("department is required")
	// ErrTitleRequired indicates a partnership payload without a title.
	ErrTitleRequired = errors.New("title is required")
)
