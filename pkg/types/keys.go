package types

// Well-known store keys. The layout matches the blobs the browser client
// kept in local storage.
const (
	SessionKey  = "user"
	ThemeKey    = "theme"
	RegistryKey = "registered_users"

	taskKeyPrefix = "tasks_"
)

// TaskKey returns the key holding the task list of the given user.
func TaskKey(userID string) string {
	return taskKeyPrefix + userID
}
