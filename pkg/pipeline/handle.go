package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Button actions carried in Telegram callback data, "verb:handle".
const (
	actionConfirm = "confirm"
	actionEdit    = "edit"
	actionCancel  = "cancel"
	actionUndo    = "undo"
	actionNoop    = "noop"
)

// newHandle mints the opaque token tying together one creation attempt's
// preview, confirmation and undo. Telegram callback data caps at 64 bytes,
// so the handle is a millisecond timestamp plus a short random suffix rather
// than a full UUID.
func newHandle(now time.Time) string {
	return fmt.Sprintf("evt_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// splitAction parses "verb:handle" callback data.
func splitAction(data string) (verb string, handle string, ok bool) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
