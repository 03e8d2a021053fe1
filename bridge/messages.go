package bridge

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/odkshell/gateway"
)

// Messages holds the prefixes used to render each gateway failure kind.
// A blank prefix falls back to the error's own text.
type Messages struct {
	Spawn    string
	Stdin    string
	Wait     string
	Decode   string
	Exit     string
	Canceled string
}

// Render formats err for display. Gateway failures become "<prefix>: <detail>",
// where detail is the captured stderr for a non-zero exit and the cause
// otherwise. Any other error is rendered with its own text.
func (m Messages) Render(err error) string {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		return err.Error()
	}

	var prefix string
	detail := fmt.Sprint(gerr.Err)
	switch gerr.Kind {
	case gateway.KindSpawnFailed:
		prefix = m.Spawn
	case gateway.KindStdinWriteFailed:
		prefix = m.Stdin
	case gateway.KindWaitFailed:
		prefix = m.Wait
	case gateway.KindNonUTF8Output:
		prefix = m.Decode
	case gateway.KindNonZeroExit:
		prefix = m.Exit
		detail = gerr.Stderr
	case gateway.KindCanceled:
		prefix = m.Canceled
	}

	if prefix == "" {
		return gerr.Error()
	}
	return prefix + ": " + detail
}
