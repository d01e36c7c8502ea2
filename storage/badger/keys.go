package badger

import "fmt"

// Key prefixes for different data types
const (
	taskRecordPrefix = "taskrec"
)

// makeTaskKey generates a key for a task record by ID.
func makeTaskKey(taskID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", taskRecordPrefix, taskID))
}
