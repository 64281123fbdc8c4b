// Package netsource opens a TCP or UDP socket as a plain io.ReadCloser so
// idefix's decode command can hand it straight to a demux.Demuxer alongside
// a file or stdin, without the CLI needing a transport-specific code path.
package netsource

import (
	"fmt"
	"net"
)

// Listen opens protocol ("tcp" or "udp") on port and returns a reader over
// it. TCP accepts exactly one connection; UDP returns the listening socket
// itself, since net.UDPConn already satisfies io.Reader one datagram at a
// time.
func Listen(protocol string, port int) (net.Conn, error) {
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("netsource: listen tcp %s: %w", addr, err)
		}
		conn, err := listener.Accept()
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("netsource: accept tcp %s: %w", addr, err)
		}
		return &tcpConn{Conn: conn, listener: listener}, nil
	case "udp":
		udpAddr, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			return nil, fmt.Errorf("netsource: resolve udp %s: %w", addr, err)
		}
		conn, err := net.ListenUDP("udp", udpAddr)
		if err != nil {
			return nil, fmt.Errorf("netsource: listen udp %s: %w", addr, err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("netsource: unsupported protocol %q (want tcp or udp)", protocol)
	}
}

// tcpConn closes both the accepted connection and the listener it came
// from, so a single Close releases the whole socket.
type tcpConn struct {
	net.Conn
	listener net.Listener
}

func (c *tcpConn) Close() error {
	connErr := c.Conn.Close()
	listenErr := c.listener.Close()
	if connErr != nil {
		return connErr
	}
	return listenErr
}
