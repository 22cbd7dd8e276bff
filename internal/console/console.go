// Package console launches the operator-facing terminal client against
// the local proxy socket.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/johnrdowson/spectro-connect/relay"
	"github.com/johnrdowson/spectro-connect/util"
)

// Legacy algorithms many managed network devices still require. PuTTY
// negotiates these on its own; OpenSSH needs them enabled explicitly.
const (
	legacyKexAlgos = "diffie-hellman-group1-sha1,diffie-hellman-group-exchange-sha1"
	legacyCiphers  = "aes256-cbc"
)

// Session describes the terminal session to open: the local proxy
// endpoint standing in for the device, and the device identity needed
// for host-key aliasing and window titles.
type Session struct {
	Protocol  relay.Protocol
	LocalHost string
	LocalPort int
	DeviceIP  string
	Username  string // empty = prompt (SSH only)
}

// Launcher opens a terminal session. Implementations either spawn an
// external client (PuTTY, ssh, telnet) or run the session in-process.
type Launcher interface {
	Launch(ctx context.Context, sess Session) error
}

// ClientLauncher spawns the platform's native terminal client.
type ClientLauncher struct {
	Logger *util.Logger

	// GOOS overrides runtime.GOOS in tests.
	GOOS string
	// Stdin overrides os.Stdin for the username prompt in tests.
	Stdin io.Reader
}

func (l *ClientLauncher) goos() string {
	if l.GOOS != "" {
		return l.GOOS
	}
	return runtime.GOOS
}

func (l *ClientLauncher) stdin() io.Reader {
	if l.Stdin != nil {
		return l.Stdin
	}
	return os.Stdin
}

// Launch builds the client command line and runs it attached to the
// operator's terminal, blocking until the client exits.
func (l *ClientLauncher) Launch(ctx context.Context, sess Session) error {
	if l.goos() != "windows" && sess.Protocol == relay.ProtocolSSH && sess.Username == "" {
		user, err := promptUsername(l.stdin())
		if err != nil {
			return err
		}
		sess.Username = user
	}

	argv, err := l.Args(sess)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	l.Logger.Debug("console: starting %s", strings.Join(argv, " "))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// Args returns the client argv for the session. Exposed separately so
// the command construction is testable without spawning anything.
func (l *ClientLauncher) Args(sess Session) ([]string, error) {
	port := strconv.Itoa(sess.LocalPort)

	if l.goos() == "windows" {
		// PuTTY presents the relayed session under the device's own
		// identity via -loghost.
		return []string{
			"putty.exe", "-" + string(sess.Protocol),
			sess.LocalHost, "-P", port,
			"-loghost", sess.DeviceIP,
		}, nil
	}

	if sess.Protocol == relay.ProtocolTelnet {
		return []string{"telnet", sess.LocalHost, port}, nil
	}

	if sess.Username == "" {
		return nil, fmt.Errorf("ssh session requires a username")
	}
	return []string{
		"ssh",
		"-o", "HostKeyAlias=" + sess.DeviceIP,
		"-o", "KexAlgorithms=+" + legacyKexAlgos,
		"-o", "Ciphers=+" + legacyCiphers,
		sess.Username + "@" + sess.LocalHost,
		"-p", port,
	}, nil
}

func promptUsername(r io.Reader) (string, error) {
	fmt.Fprint(os.Stderr, "Username: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading username: %w", err)
	}
	user := strings.TrimSpace(line)
	if user == "" {
		return "", fmt.Errorf("username is required")
	}
	return user, nil
}
