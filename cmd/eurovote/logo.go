package main

import (
	"fmt"
	"io"
	"strings"
)

// ANSI escape codes
const (
	reset   = "\033[0m"
	yellow  = "\033[33m"
	red     = "\033[31m"
	blue    = "\033[34m"
	green   = "\033[32m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
	bold    = "\033[1m"
)

const logoWidth = 62

var logo = []string{
	"   _____                        _       _       ",
	"  | ____|_   _ _ __ _____   __ | |_ ___| |_ ___ ",
	"  |  _| | | | | '__/ _ \\ \\ / / | __/ _ \\ __/ _ \\",
	"  | |___| |_| | | | (_) \\ V /  | || (_) | ||  __/",
	"  |_____|\\__,_|_|  \\___/ \\_/    \\__\\___/ \\__\\___|",
}

// showLogo prints the boxed startup banner
func showLogo(w io.Writer) {
	border := strings.Repeat("═", logoWidth)

	fmt.Fprintf(w, "\n  %s╔%s╗%s\n", magenta, border, reset)
	for _, line := range logo {
		fmt.Fprintf(w, "  %s║%s%-*s%s║%s\n", magenta, yellow, logoWidth, line, magenta, reset)
	}
	fmt.Fprintf(w, "  %s╠%s╣%s\n", magenta, border, reset)
	fmt.Fprintf(w, "  %s║%s%-*s%s║%s\n", magenta, cyan, logoWidth, "   Douze points for the best fantasy team. Version "+version, magenta, reset)
	fmt.Fprintf(w, "  %s╚%s╝%s\n\n", magenta, border, reset)
}
