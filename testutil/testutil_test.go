/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import "fmt"

// MockT records assertion failures instead of failing the running test.
type MockT struct {
	Failed   bool
	Messages []string
}

func (t *MockT) FailNow() {
	t.Failed = true
}

func (t *MockT) Errorf(format string, args ...interface{}) {
	t.Messages = append(t.Messages, fmt.Sprintf(format, args...))
}
