package firebase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/mmcdole/larder/internal/domain"
	"golang.org/x/term"
)

const probeTimeout = 10 * time.Second

// Probe checks that baseURL answers like a Realtime Database. A database
// whose rules reject anonymous reads still counts as reachable.
func Probe(ctx context.Context, baseURL string) error {
	client := NewClient(baseURL, "", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.httpClient.Timeout = probeTimeout

	err := client.Ping(ctx)
	if err == nil || errors.Is(err, domain.ErrAuthFailed) {
		return nil
	}
	return err
}

// SetupResult holds the credentials gathered by SetupFlow
type SetupResult struct {
	Auth string
}

// SetupFlow asks for an optional database secret and verifies it
type SetupFlow struct {
	logger *slog.Logger
	in     io.Reader
	// readSecret reads a line without echo; swapped out when stdin is not a terminal
	readSecret func() (string, error)
}

// NewSetupFlow creates a setup flow reading from the terminal
func NewSetupFlow(logger *slog.Logger) *SetupFlow {
	if logger == nil {
		logger = slog.Default()
	}
	f := &SetupFlow{logger: logger, in: os.Stdin}
	f.readSecret = f.readHidden
	return f
}

// SetInput replaces the reader used when stdin is not a terminal
func (f *SetupFlow) SetInput(r io.Reader) {
	f.in = r
}

// Run prompts for the secret and checks that the database accepts it.
// An empty secret is allowed for databases with public rules.
func (f *SetupFlow) Run(ctx context.Context, baseURL string, collection Collection) (*SetupResult, error) {
	fmt.Println()
	fmt.Println("Database Credentials")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("Paste a database secret or ID token, or leave empty for public rules.")

	fmt.Print("Secret: ")
	secret, err := f.readSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	fmt.Println()

	client := NewClient(baseURL, secret, collection, f.logger)
	if _, err := client.ListIngredients(ctx); err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			return nil, fmt.Errorf("database rejected the credentials: %w", err)
		}
		return nil, fmt.Errorf("could not read %s: %w", collection, err)
	}

	fmt.Println("Credentials verified!")
	return &SetupResult{Auth: secret}, nil
}

func (f *SetupFlow) readHidden() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	// Piped input: read a plain line
	line, err := bufio.NewReader(f.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
