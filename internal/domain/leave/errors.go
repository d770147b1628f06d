package leave

import "errors"

// Leave domain errors
var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveNotApproved     = errors.New("leave request is not approved")
	ErrInvalidLeaveKind     = errors.New("invalid leave kind")
)
