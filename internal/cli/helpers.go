package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// confirmPrompt asks a yes/no question on in; anything but y/yes is a no
func confirmPrompt(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
