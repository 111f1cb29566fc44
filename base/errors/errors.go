// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a small set of helpers around the standard
// library errors package, so that call sites can log-and-return or
// assert-no-error with one import.
package errors

import (
	"errors"
	"log/slog"
	"runtime"
	"strconv"
)

// Standard library passthroughs.
var (
	As     = errors.As
	Is     = errors.Is
	Join   = errors.Join
	New    = errors.New
	Unwrap = errors.Unwrap
)

// CallerInfo returns string information about the caller
// of the function that called CallerInfo.
func CallerInfo() string {
	pc, file, line, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name() + " (" + file + ":" + strconv.Itoa(line) + ")"
}

// Log returns the given error unmodified, logging it via slog
// if it is non-nil. Use it at API boundaries where an error is
// both reported to the caller and worth a log line.
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 is a variant of [Log] for the common (value, error) return
// pattern: it logs a non-nil error and returns the value as-is.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Must panics if the given error is non-nil.
// It is intended for program setup paths where an error is a bug.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 is a variant of [Must] for the (value, error) return pattern.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Ignore1 discards the error from a (value, error) return, for call
// sites where the error is genuinely irrelevant.
func Ignore1[T any](v T, _ error) T {
	return v
}
