// Package ssh is a simple wrapper for golang.org/x/crypto/ssh
package ssh

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/lsds/hia2a/srcs/go/utils/iostream"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

var defaultTimeout = 8 * time.Second

var defaultKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// Config is a pair of user and host, with an optional private key file.
type Config struct {
	User    string
	Host    string
	KeyFile string
}

func withDefaultPort(host string) string {
	_, _, err := net.SplitHostPort(host)
	if err == nil {
		return host
	}
	const defaultPort = "22"
	return net.JoinHostPort(host, defaultPort)
}

func withDefaultUser(name string) string {
	if len(name) == 0 {
		if u, err := user.Current(); err == nil {
			return u.Username
		}
	}
	return name
}

func completeConfig(config Config) Config {
	return Config{
		User:    withDefaultUser(config.User),
		Host:    withDefaultPort(config.Host),
		KeyFile: config.KeyFile,
	}
}

func newSSHClient(config Config) (*ssh.Client, error) {
	config = completeConfig(config)
	key, err := loadKey(config.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get key")
	}
	clientConfig := &ssh.ClientConfig{
		User: config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(key),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         defaultTimeout,
	}
	return ssh.Dial("tcp", config.Host, clientConfig)
}

// Client is a wrapper for ssh.Client
type Client struct {
	config Config
	client *ssh.Client
}

// New creates a new Client
func New(cfg Config) (*Client, error) {
	client, err := newSSHClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{config: completeConfig(cfg), client: client}, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("%s@%s", c.config.User, c.config.Host)
}

// Watch runs cmd on the remote host and streams its output to redirectors until it
// exits or ctx is done.
func (c *Client) Watch(ctx context.Context, cmd string, redirectors []*iostream.StdWriters) error {
	session, err := c.client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()
	stdout, err := session.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		return err
	}
	results := iostream.StdReaders{Stdout: stdout, Stderr: stderr}
	ioDone := results.Stream(redirectors...)
	if err := session.Start(cmd); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		ioDone.Wait() // before session.Wait()
		done <- session.Wait()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		session.Signal(ssh.SIGTERM)
		session.Close()
		return ctx.Err()
	}
}

func loadKey(keyFile string) (ssh.Signer, error) {
	files := []string{keyFile}
	if len(keyFile) == 0 {
		files = nil
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		for _, name := range defaultKeyNames {
			files = append(files, filepath.Join(home, ".ssh", name))
		}
	}
	var lastErr error
	for _, file := range files {
		buf, err := os.ReadFile(file)
		if err != nil {
			lastErr = err
			continue
		}
		return ssh.ParsePrivateKey(buf)
	}
	return nil, lastErr
}

// Close closes the client
func (c *Client) Close() error {
	return c.client.Close()
}
