/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"net"

	"github.com/stretchr/testify/require"
)

// ClosedLocalURL returns an http:// base URL pointing to a loopback TCP port nobody listens on.
// Requests to it fail with "connection refused", which is handy for transport error tests.
func ClosedLocalURL(t require.TestingT) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}
