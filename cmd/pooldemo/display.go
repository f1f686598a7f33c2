package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/l1jgo/spawnpool/internal/pool"
)

// ── Console display helpers ────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m           pooldemo  v%-21s\033[36;1m│\033[0m\n", version)
	fmt.Println("\033[36;1m  │\033[0m       spawn pools · fixed-rate loop       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mruntime:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - utf8.RuneCountInString(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := printer.Sprintf("%d", count)
	dotsLen := 42 - utf8.RuneCountInString(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// printPools renders a snapshot as a table with grouped digits.
func printPools(stats []pool.Stat) {
	if len(stats) == 0 {
		fmt.Println("  (no pools)")
		return
	}
	printer.Printf("  \033[1m%-16s %-12s %8s %8s %8s %10s %10s %10s\033[0m\n",
		"template", "category", "active", "idle", "total", "created", "reused", "destroyed")
	for _, s := range stats {
		printer.Printf("  %-16s %-12s %8d %8d %8d %10d %10d %10d\n",
			s.Template, s.Category, s.Active, s.Inactive, s.Total, s.Created, s.Reused, s.Destroyed)
	}
}
