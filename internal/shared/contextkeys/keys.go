package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "trackserver context key " + string(c)
}

// CompanyIDKey is the key for the tenant company ID in context.Context
const CompanyIDKey = contextKey("companyID")

// UserIDKey is the key for the calling user ID in context.Context
const UserIDKey = contextKey("userID")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the operation name in context.Context
const OperationKey = contextKey("operation")
