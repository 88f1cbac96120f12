// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/mboulet/moteus/pkg/moteus"
)

// Connection is a byte stream to an fdcanusb adapter, local or bridged.
type Connection = io.ReadWriteCloser

const (
	bridgeDialTimeout      = 15 * time.Second
	bridgeHandshakeTimeout = 10 * time.Second
)

// messageConn is the slice of *websocket.Conn that wsConn needs.
type messageConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// wsConn adapts a message-oriented websocket to the byte stream the
// fdcanusb reader expects. The bridge carries the adapter's text protocol
// as binary messages; leftover bytes from a message larger than the
// caller's buffer are handed out on subsequent reads.
type wsConn struct {
	conn messageConn
	rest []byte
}

func (w *wsConn) Read(p []byte) (int, error) {
	for len(w.rest) == 0 {
		kind, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if kind == websocket.BinaryMessage {
			w.rest = data
		}
	}
	n := copy(p, w.rest)
	w.rest = w.rest[n:]
	return n, nil
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// openSerial opens the local adapter port in 8N1 framing.
func openSerial(portName string, baudRate int) (Connection, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return port, nil
}

// dialBridge connects to a remote fdcanusb bridge over a websocket,
// authenticating with HTTP basic auth when credentials are given.
func dialBridge(bridgeURL, username, password string, skipVerify bool) (Connection, error) {
	u, err := url.Parse(bridgeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("bridge URL scheme %q: want ws or wss", u.Scheme)
	}

	dialer := websocket.Dialer{HandshakeTimeout: bridgeHandshakeTimeout}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: skipVerify}
	}

	var headers http.Header
	if username != "" && password != "" {
		req := http.Request{Header: http.Header{}}
		req.SetBasicAuth(username, password)
		headers = req.Header
	}

	ctx, cancel := context.WithTimeout(context.Background(), bridgeDialTimeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, bridgeURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge handshake (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("bridge dial: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

// bridgePassword reads the bridge password from MOTEUS_PASSWORD, or prompts
// for it without echo when the environment leaves it unset.
func bridgePassword() (string, error) {
	if pw := os.Getenv("MOTEUS_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)

	pw, err := term.ReadPassword(int(syscall.Stdin))
	if err == nil {
		return string(pw), nil
	}

	// Not a terminal; read a line from stdin instead.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// OpenConnection opens either a serial or websocket connection per the
// effective settings.
func OpenConnection(s settings) (Connection, string, error) {
	switch {
	case s.URL != "":
		password := ""
		if s.Username != "" {
			pw, err := bridgePassword()
			if err != nil {
				return nil, "", err
			}
			password = pw
		}
		conn, err := dialBridge(s.URL, s.Username, password, s.NoVerify)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("websocket %s", s.URL), nil
	case s.Port != "":
		conn, err := openSerial(s.Port, s.Baud)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("serial %s @ %d", s.Port, s.Baud), nil
	default:
		return nil, "", fmt.Errorf("no connection configured: pass --port or --url, or set one in the config file")
	}
}

// openController builds a Controller over an fdcanusb transport using the
// config file and flags, returning the effective settings too.
func openController() (*moteus.Controller, settings, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, settings{}, err
	}
	conn, info, err := OpenConnection(s)
	if err != nil {
		return nil, settings{}, err
	}
	log.Debug().Str("connection", info).Msg("connected")

	var opts []moteus.FdCanUSBOption
	if s.DisableBRS {
		opts = append(opts, moteus.WithDisableBRS())
	}
	fdc := moteus.NewFdCanUSB(conn, opts...)
	fdc.Drain()

	var transport moteus.Transport = fdc
	if verbose {
		transport = moteus.NewLoggedTransport(transport, log.Logger)
	}
	return moteus.New(transport), s, nil
}
