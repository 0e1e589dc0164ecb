// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON endpoints.
const (
	// MaxJSONBody covers small command bodies (invitations, mentor
	// assignment, invitation acceptance).
	MaxJSONBody = 1 << 16 // 64 KB

	// MaxConversationBody is the optional body of a new assistant conversation.
	MaxConversationBody = 1 << 12 // 4 KB

	// MaxSnapshotBody bounds a raw snapshot posted to the analytics compute
	// endpoint.
	MaxSnapshotBody = 8 << 20 // 8 MB
)
