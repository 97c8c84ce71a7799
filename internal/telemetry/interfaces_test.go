package telemetry

import "testing"

func TestLoggerFuncNilSafe(t *testing.T) {
	var f LoggerFunc
	f.Printf("should not panic: %d", 1)
}

func TestLoggerFuncInvokesUnderlying(t *testing.T) {
	var got string
	f := LoggerFunc(func(format string, args ...any) { got = format })
	f.Printf("hello %s", "world")
	if got != "hello %s" {
		t.Fatalf("got %q", got)
	}
}

func TestWrapLoggerNilLoggerSafe(t *testing.T) {
	l := WrapLogger(nil)
	l.Printf("should not panic")
}
