package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Operation names the data operation being performed, e.g. "categories".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Key records a fetch key. Keys of any comparable type are logged with %v semantics.
func Key(k any) slog.Attr {
	return slog.Any("key", k)
}

func CategoryID(id string) slog.Attr {
	return slog.String("category_id", id)
}

func SubCategoryID(id string) slog.Attr {
	return slog.String("subcategory_id", id)
}

// Attempt records a 1-based attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Status(s string) slog.Attr {
	return slog.String("status", s)
}

func EventType(t string) slog.Attr {
	return slog.String("event_type", t)
}
