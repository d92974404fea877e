package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/megatec-protocol/megatec-go/pkg/session"
)

// shell drives the interactive command loop over one session.
type shell struct {
	s  *session.Session
	rl *readline.Instance
}

func newShell(s *session.Session) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ups> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{s: s, rl: rl}, nil
}

func (sh *shell) run() error {
	defer sh.rl.Close()

	sh.printHelp()

	for {
		line, err := sh.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			// EOF
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			sh.printHelp()

		case "status", "s":
			sh.cmdStatus(args)

		case "rating", "r":
			sh.cmdRating()

		case "name", "n":
			sh.cmdName()

		case "test", "t":
			sh.cmdTest(args)

		case "abort", "a":
			sh.cmdAbort()

		case "beep", "b":
			sh.cmdBeep()

		case "shutdown":
			sh.cmdShutdown(args)

		case "quit", "q", "exit":
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(sh.rl.Stdout(), "Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (sh *shell) printHelp() {
	fmt.Fprint(sh.rl.Stdout(), `
Commands:
  status [noack]   Live status snapshot ('noack' skips the ack round)
  rating           Nameplate rating information
  name             Device identifying string
  test [n|low]     Battery test: default 10s, n minutes (1-99), or until low
  abort            Abort a running battery test
  beep             Toggle the UPS beeper
  shutdown yes     Cut output power after one minute (must type 'yes')
  help             Show this help
  quit             Exit

`)
}

func (sh *shell) cmdStatus(args []string) {
	noAck := len(args) > 0 && args[0] == "noack"

	status := sh.s.Status
	if noAck {
		status = sh.s.StatusNoAck
	}
	res, err := status()
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	out := sh.rl.Stdout()
	fmt.Fprintf(out, "Input voltage:        %.1f V\n", res.InputVoltage)
	fmt.Fprintf(out, "Input fault voltage:  %.1f V\n", res.InputFaultVoltage)
	fmt.Fprintf(out, "Output voltage:       %.1f V\n", res.OutputVoltage)
	fmt.Fprintf(out, "Output load:          %.0f %%\n", res.OutputLoad)
	fmt.Fprintf(out, "Input frequency:      %.1f Hz\n", res.InputFrequency)
	fmt.Fprintf(out, "Battery voltage:      %.2f V\n", res.BatteryVoltage)
	fmt.Fprintf(out, "Temperature:          %.1f C\n", res.Temperature)
}

func (sh *shell) cmdRating() {
	r, err := sh.s.Rating()
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	out := sh.rl.Stdout()
	fmt.Fprintf(out, "Rated voltage:    %.1f V\n", r.Voltage)
	fmt.Fprintf(out, "Rated current:    %.1f A\n", r.Current)
	fmt.Fprintf(out, "Battery voltage:  %.2f V\n", r.BatteryVoltage)
	fmt.Fprintf(out, "Rated frequency:  %.1f Hz\n", r.Frequency)
}

func (sh *shell) cmdName() {
	name, err := sh.s.Name()
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintln(sh.rl.Stdout(), name)
}

func (sh *shell) cmdTest(args []string) {
	var err error
	switch {
	case len(args) == 0:
		err = sh.s.Test()
	case args[0] == "low":
		err = sh.s.TestUntilBatteryLow()
	default:
		var minutes int
		minutes, err = strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(sh.rl.Stdout(), "Usage: test [n|low] (n in 1-99)\n")
			return
		}
		err = sh.s.TestWithTime(minutes)
	}
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "Test command sent.")
}

func (sh *shell) cmdAbort() {
	if err := sh.s.AbortTest(); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "Abort command sent.")
}

func (sh *shell) cmdBeep() {
	if err := sh.s.SwitchBeep(); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "Beeper toggled.")
}

func (sh *shell) cmdShutdown(args []string) {
	if len(args) == 0 || args[0] != "yes" {
		fmt.Fprintln(sh.rl.Stdout(), "Refusing: type 'shutdown yes' to cut output power in one minute.")
		return
	}
	if err := sh.s.Shutdown(); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "Shutdown scheduled; output power cuts in one minute.")
}
