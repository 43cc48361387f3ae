package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nonsonwune/hirehub/present"
)

// console reads menu input line by line and writes prompts and output.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole(r io.Reader, w io.Writer) *console {
	return &console{in: bufio.NewReader(r), out: w}
}

// prompt prints label and returns the next input line, trimmed. io.EOF is
// returned once input is exhausted.
func (c *console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// menu prints a boxed, centered menu.
func (c *console) menu(title string, width int, items ...string) {
	rule := strings.Repeat("=", width)
	c.println("\n" + rule)
	color.New(color.FgCyan, color.Bold).Fprintln(c.out, present.Center(" "+title+" ", width))
	c.println(rule)
	for _, item := range items {
		c.println(present.Center(item, width))
	}
	c.println(rule)
}

func (c *console) success(format string, a ...any) {
	color.New(color.FgGreen).Fprintf(c.out, format+"\n", a...)
}

func (c *console) warn(format string, a ...any) {
	color.New(color.FgYellow).Fprintf(c.out, format+"\n", a...)
}

func (c *console) fail(format string, a ...any) {
	color.New(color.FgRed).Fprintf(c.out, format+"\n", a...)
}
