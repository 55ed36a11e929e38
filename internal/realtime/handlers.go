package realtime

import (
	"fmt"

	"github.com/filebox/filebox/pkg/protocol"
)

// actionText maps file-update action tokens to display text.
var actionText = map[string]string{
	protocol.ActionUpload:       "was uploaded",
	protocol.ActionDownload:     "was downloaded",
	protocol.ActionDelete:       "was moved to trash",
	protocol.ActionRestore:      "was restored",
	protocol.ActionPurge:        "was permanently deleted",
	protocol.ActionUnshare:      "is no longer shared with you",
	protocol.ActionCreateFolder: "was created",
}

// DescribeFileUpdate renders a file-update event as human-readable text.
// An unrecognized action falls back to the raw action token.
func DescribeFileUpdate(u protocol.FileUpdate) string {
	text, ok := actionText[u.Action]
	if !ok {
		text = u.Action
	}
	return fmt.Sprintf("File %q %s", u.FileName, text)
}
