package domain

import "errors"

// ErrSettingsNotFound is returned by settings stores when no blob exists under a key.
var ErrSettingsNotFound = errors.New("settings not found")

// ErrInvalidArgument is returned when an invocation argument cannot be coerced.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrBackendUnavailable is returned when a required host capability is not wired.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ErrRateLimited is returned when a background trigger arrives too soon after the previous one.
var ErrRateLimited = errors.New("rate limited")
