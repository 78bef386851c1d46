// Command hashpw prints the digest to store in the credentials cell for a
// staff password read from the first argument or standard input.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mamadbah2/portaria/internal/service/auth"
)

func main() {
	password, err := readPassword(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(auth.HashPassword(password))
}

func readPassword(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("usage: hashpw <password>")
	}
	return password, nil
}
