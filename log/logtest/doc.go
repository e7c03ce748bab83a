/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package logtest provides log.FieldLogger implementations for tests:
// a Recorder that keeps entries in memory for assertions and simple JSON loggers
// writing to an io.Writer or to testing.TB.
package logtest
