// Package console writes the operator-facing progress lines. Every success
// or failure the pipeline reports produces exactly one line here.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"tapnode/internal/model"
)

const (
	GlyphOK   = "✓"
	GlyphFail = "✗"
)

const (
	clrReset  = "\x1b[0m"
	clrGreen  = "\x1b[32m"
	clrRed    = "\x1b[31m"
	clrCyan   = "\x1b[36m"
	clrYellow = "\x1b[33m"
)

type Console struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func New(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

// Stdout colors output only when stdout is a terminal and NO_COLOR is unset.
func Stdout() *Console {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return New(colorable.NewColorableStdout(), tty && os.Getenv("NO_COLOR") == "")
}

func (c *Console) paint(code, s string) string {
	if !c.color {
		return s
	}
	return code + s + clrReset
}

func (c *Console) Println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, s+"\n")
}

func (c *Console) Printf(format string, args ...any) {
	c.Println(fmt.Sprintf(format, args...))
}

func (c *Console) Banner(title string) {
	line := strings.Repeat("=", 37)
	c.Println(c.paint(clrCyan, line))
	c.Println(c.paint(clrCyan, "  "+title+"  "))
	c.Println(c.paint(clrCyan, line))
	c.Println("")
}

// Section prints a "===== TITLE =====" header.
func (c *Console) Section(title string) {
	c.Println(c.paint(clrYellow, "===== "+title+" ====="))
}

func (c *Console) Loaded(n int, what string) {
	c.Printf("= LOADED %d %s =", n, what)
}

func (c *Console) OK(msg string) {
	c.Println("  " + c.paint(clrGreen, GlyphOK) + " " + msg)
}

func (c *Console) Fail(msg string, err error) {
	line := "  " + c.paint(clrRed, GlyphFail) + " " + msg
	if err != nil {
		line += ": " + err.Error()
	}
	c.Println(line)
}

// Error prints an unindented failure line for conditions outside a step.
func (c *Console) Error(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	c.Println(c.paint(clrRed, msg))
}

func (c *Console) AccountStart(acc model.Account) {
	title := "PROCESSING TOKEN: " + acc.ShortToken()
	if acc.Proxy != "" {
		title += " USING PROXY: " + acc.Proxy
	}
	c.Println("")
	c.Section(title)
}

func (c *Console) AccountDone(acc model.Account) {
	c.Section("TOKEN " + acc.ShortToken() + " PROCESSING COMPLETE")
	c.Println("")
}

func (c *Console) Profile(p *model.Profile) {
	if p == nil {
		c.Println("No profile data available")
		return
	}
	energy := "-"
	if p.Energy != nil {
		energy = fmt.Sprint(*p.Energy)
	}
	c.Println("")
	c.Section("PROFILE INFORMATION")
	c.Printf("Username: %s", p.Username)
	c.Printf("Energy: %s/%d", energy, p.EnergyMax)
	c.Printf("Energy Level: %d", p.EnergyLevel)
	c.Printf("Tap Power: %d", p.TapPower)
	c.Printf("Full Energy Last Used: %s", p.FullEnergy.LastUsed.Display())
	c.Printf("Last Energy Time: %s", p.LastEnergyTime.Display())
	c.Printf("Last Data Claim Time: %s", p.LastDataClaimTime.Display())
	c.Println(c.paint(clrYellow, strings.Repeat("=", 31)))
	c.Println("")
}
