// Command megatec-cli issues one Mega(USB) protocol command per run.
//
// The device is selected through flags or a YAML config file: either a
// USB vendor/product pair or a serial port path, never both.
//
// Usage:
//
//	megatec-cli [flags] <command>
//
// Commands:
//
//	name      Print the device's identifying string
//	rating    Print the nameplate rating information
//	status    Print a live status snapshot
//	test      Run a battery test
//	abort     Abort a running battery test
//	beep      Toggle the UPS beeper
//	shutdown  Shut the UPS down (fixed one-minute delay)
//
// Examples:
//
//	# Status over the default USB identity
//	megatec-cli status
//
//	# Fast status without the acknowledgment round
//	megatec-cli status --no-ack
//
//	# 20-minute battery test over a serial port
//	megatec-cli --port /dev/ttyUSB0 test --minutes 20
//
//	# Shut down, capturing the exchange for later analysis
//	megatec-cli --protocol-log ups.mlog shutdown --yes
package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagPort        string
	flagVID         uint16
	flagPID         uint16
	flagTimeout     time.Duration
	flagProtocolLog string
	flagWait        bool
)

func main() {
	root := &cobra.Command{
		Use:           "megatec-cli",
		Short:         "Control a Mega(USB) UPS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to YAML config file")
	pf.StringVar(&flagPort, "port", "", "Serial port path (overrides USB identity)")
	pf.Uint16Var(&flagVID, "vid", 0, "USB vendor ID (overrides config)")
	pf.Uint16Var(&flagPID, "pid", 0, "USB product ID (overrides config)")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Reply read timeout (overrides config)")
	pf.StringVar(&flagProtocolLog, "protocol-log", "", "Capture the exchange to a .mlog file")
	pf.BoolVar(&flagWait, "wait", false, "Retry opening the device with backoff until interrupted")

	root.AddCommand(
		nameCommand(),
		ratingCommand(),
		statusCommand(),
		testCommand(),
		abortCommand(),
		beepCommand(),
		shutdownCommand(),
	)

	if err := root.Execute(); err != nil {
		log.Fatalln(err)
	}
}
