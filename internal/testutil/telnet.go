// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	iac = 255
	sb  = 250
	se  = 240
)

// ConsoleClient drives a telnet console session from a test. Telnet command
// sequences are dropped from everything it reads.
type ConsoleClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
	seen   strings.Builder
}

// DialConsole connects to a telnet console at addr.
//
// Precondition: addr is a "host:port" with a listening acceptor.
// Postcondition: Returns a connected client closed on test cleanup, or fails the test.
func DialConsole(t *testing.T, addr string) *ConsoleClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	require.NoError(t, err, "connecting to %s", addr)
	t.Cleanup(func() { conn.Close() })

	t.Logf("console client connected to %s [%s]", addr, time.Since(start))
	return &ConsoleClient{conn: conn, reader: bufio.NewReader(conn), t: t}
}

// ReadUntil returns everything read since the previous match, up to and
// including the next occurrence of substr.
//
// Precondition: substr must be non-empty.
func (c *ConsoleClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		if i := strings.Index(c.seen.String(), substr); i >= 0 {
			all := c.seen.String()
			out, rest := all[:i+len(substr)], all[i+len(substr):]
			c.seen.Reset()
			c.seen.WriteString(rest)
			return out
		}
		b, err := c.reader.ReadByte()
		require.NoError(c.t, err, "reading until %q, got %q", substr, c.seen.String())
		if b == iac {
			c.skipCommand()
			continue
		}
		c.seen.WriteByte(b)
	}
}

func (c *ConsoleClient) skipCommand() {
	cmd, err := c.reader.ReadByte()
	require.NoError(c.t, err)
	switch {
	case cmd == iac:
		c.seen.WriteByte(iac)
	case cmd == sb:
		_, err := c.reader.ReadBytes(se)
		require.NoError(c.t, err)
	case cmd >= 251:
		_, err := c.reader.ReadByte()
		require.NoError(c.t, err)
	}
}

// Send writes text followed by CRLF.
func (c *ConsoleClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := fmt.Fprintf(c.conn, "%s\r\n", text)
	require.NoError(c.t, err, "sending %q", text)
}

// Close closes the connection.
func (c *ConsoleClient) Close() {
	c.conn.Close()
}
