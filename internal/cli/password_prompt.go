package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errPasswordMismatch = errors.New("passwords do not match")

// promptNewPassword asks twice without echo on a terminal. Piped input is read
// as a single line with no confirmation.
func promptNewPassword(stdin *os.File, out io.Writer) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	fmt.Fprint(out, "Password: ")
	first, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return readPasswordLine(stdin)
	}

	fmt.Fprint(out, "Confirm password: ")
	second, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}

func readPasswordLine(stdin io.Reader) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
