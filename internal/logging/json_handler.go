package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// jsonTimeLayout keeps millisecond precision so records from back-to-back
// jobs still sort in order.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// newJSONHandler writes one object per record. Durations are rendered as
// text rounded to the millisecond rather than integer nanoseconds.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch attr.Key {
				case slog.TimeKey:
					attr.Key = "ts"
					if attr.Value.Kind() == slog.KindTime {
						attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
					}
					return attr
				case slog.LevelKey:
					attr.Key = "level"
					attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
					return attr
				case slog.MessageKey:
					attr.Key = "msg"
					return attr
				case slog.SourceKey:
					if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
						attr.Key = "caller"
						attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
					}
					return attr
				}
			}
			if attr.Value.Kind() == slog.KindDuration {
				attr.Value = slog.StringValue(attr.Value.Duration().Round(time.Millisecond).String())
			}
			return attr
		},
	}

	return slog.NewJSONHandler(w, &opts)
}
