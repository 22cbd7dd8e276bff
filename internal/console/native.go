package console

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/johnrdowson/spectro-connect/relay"
	"github.com/johnrdowson/spectro-connect/util"
)

// nativeKexAlgos is the default preference order plus the legacy
// exchanges old device firmware still requires.
var nativeKexAlgos = []string{
	"curve25519-sha256", "curve25519-sha256@libssh.org",
	"ecdh-sha2-nistp256", "ecdh-sha2-nistp384", "ecdh-sha2-nistp521",
	"diffie-hellman-group14-sha256", "diffie-hellman-group14-sha1",
	"diffie-hellman-group1-sha1",
	"diffie-hellman-group-exchange-sha1",
}

// nativeCiphers appends aes256-cbc to the modern defaults.
var nativeCiphers = []string{
	"aes128-gcm@openssh.com", "chacha20-poly1305@openssh.com",
	"aes128-ctr", "aes192-ctr", "aes256-ctr",
	"aes256-cbc",
}

// NativeLauncher runs the SSH session in-process instead of spawning an
// external client. Useful on hosts without an OpenSSH binary that
// accepts the legacy algorithm options.
type NativeLauncher struct {
	Logger      *util.Logger
	ConnTimeout time.Duration
}

// Launch dials the local proxy socket, authenticates with a prompted
// password, and attaches the operator's terminal to a remote shell.
func (l *NativeLauncher) Launch(ctx context.Context, sess Session) error {
	if sess.Protocol != relay.ProtocolSSH {
		return fmt.Errorf("native session supports SSH only, not %s", sess.Protocol)
	}

	user := sess.Username
	if user == "" {
		u, err := promptUsername(os.Stdin)
		if err != nil {
			return err
		}
		user = u
	}

	fmt.Fprintf(os.Stderr, "%s@%s password: ", user, sess.DeviceIP)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	timeout := l.ConnTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cfg := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{ssh.Password(string(password))},
		// The relayed endpoint cannot be verified against the device's
		// real identity; the external-client path behaves the same via
		// HostKeyAlias on a first connect.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         timeout,
	}
	cfg.KeyExchanges = nativeKexAlgos
	cfg.Ciphers = nativeCiphers

	addr := util.FormatAddr(sess.LocalHost, sess.LocalPort)
	l.Logger.Debug("native: dialing %s as %s", addr, user)

	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, cfg)
	if err != nil {
		tcpConn.Close()
		return fmt.Errorf("ssh handshake with %s: %w", sess.DeviceIP, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	return runShell(session)
}

// runShell puts the local terminal into raw mode, requests a PTY sized
// to it, and blocks until the remote shell exits.
func runShell(session *ssh.Session) error {
	fd := int(os.Stdin.Fd())

	width, height := 80, 24
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			width, height = w, h
		}
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, state) //nolint:errcheck
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("xterm-256color", height, width, modes); err != nil {
		return fmt.Errorf("request pty: %w", err)
	}

	session.Stdin = os.Stdin
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr

	if err := session.Shell(); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}

	if err := session.Wait(); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return nil // remote shell exited non-zero; the session itself is fine
		}
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
