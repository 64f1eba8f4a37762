package controller

import (
	"net"
	"strconv"
)

// SendFunc transmits a single datagram to a gateway. The protocol is
// fire-and-forget UDP: nothing is read back and no delivery signal exists.
type SendFunc func(payload []byte, host string, port int) error

// UDPSend is the default transport. It opens a socket, writes one datagram
// and closes the socket again; no connection is held between commands.
func UDPSend(payload []byte, host string, port int) error {
	conn, err := net.Dial("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write(payload)
	return err
}
