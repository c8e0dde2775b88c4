package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

// readPassword reads from a terminal without echo; tests replace it.
var readPassword = term.ReadPassword

// maxEmailAttempts bounds how often Email re-asks for an address.
const maxEmailAttempts = 3

var errTooManyAttempts = errors.New("too many invalid answers")

// prompter is what the commands need from the session.
type prompter interface {
	Line(label string) (string, error)
	Email(label string) (string, error)
	Password(label string) ([]byte, error)
}

// Console prompts on out, reads answers from in and reads passwords from
// the terminal behind fd.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	validate *validator.Validate
}

func NewConsole(in *bufio.Reader, out io.Writer, fd int) *Console {
	return &Console{in: in, out: out, fd: fd, validate: validator.New()}
}

// Line prints "label: " and returns the trimmed answer. A final line without
// a newline still counts; EOF with nothing read returns io.EOF.
func (c *Console) Line(label string) (string, error) {
	if _, err := fmt.Fprintf(c.out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Email asks until the answer is a plausible address, giving up after
// maxEmailAttempts tries.
func (c *Console) Email(label string) (string, error) {
	for range maxEmailAttempts {
		email, err := c.Line(label)
		if err != nil {
			return "", err
		}
		if c.validate.Var(email, "required,email") == nil {
			return email, nil
		}
		fmt.Fprintln(c.out, "Please include a valid email")
	}
	return "", errTooManyAttempts
}

// Password prints "label: " and reads without echo. The caller wipes the
// returned slice.
func (c *Console) Password(label string) ([]byte, error) {
	if _, err := fmt.Fprintf(c.out, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}
