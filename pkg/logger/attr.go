package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
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

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Store records the store namespace under the key "store".
func Store(ns string) slog.Attr {
	return slog.String("store", ns)
}

// Entry records an entry name under the key "entry".
func Entry(name string) slog.Attr {
	return slog.String("entry", name)
}

// Entries records a list of entry names under the key "entries".
func Entries(names []string) slog.Attr {
	return slog.Any("entries", names)
}

// Bytes records a byte count under the key "bytes".
func Bytes(n int64) slog.Attr {
	return slog.Int64("bytes", n)
}

// Recipient records a notification recipient under the key "recipient".
func Recipient(addr string) slog.Attr {
	return slog.String("recipient", addr)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
