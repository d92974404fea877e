package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/megatec-protocol/megatec-go/pkg/config"
	"github.com/megatec-protocol/megatec-go/pkg/log"
	"github.com/megatec-protocol/megatec-go/pkg/session"
	"github.com/megatec-protocol/megatec-go/pkg/transport"
	"github.com/megatec-protocol/megatec-go/pkg/wire"
)

func nameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "name",
		Short: "Print the device's identifying string",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(func(s *session.Session) error {
				name, err := s.Name()
				if err != nil {
					return err
				}
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Println(name)
				return nil
			})
		},
	}
}

func ratingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rating",
		Short: "Print the nameplate rating information",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(func(s *session.Session) error {
				r, err := s.Rating()
				if err != nil {
					return err
				}
				fmt.Printf("Rated voltage:    %.1f V\n", r.Voltage)
				fmt.Printf("Rated current:    %.1f A\n", r.Current)
				fmt.Printf("Battery voltage:  %.2f V\n", r.BatteryVoltage)
				fmt.Printf("Rated frequency:  %.1f Hz\n", r.Frequency)
				return nil
			})
		},
	}
}

func statusCommand() *cobra.Command {
	var noAck bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a live status snapshot",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(func(s *session.Session) error {
				var (
					st  wire.Status
					err error
				)
				if noAck {
					st, err = s.StatusNoAck()
				} else {
					st, err = s.Status()
				}
				if err != nil {
					return err
				}
				printStatus(st)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noAck, "no-ack", false, "Skip the acknowledgment round (faster, may be stale)")
	return cmd
}

func testCommand() *cobra.Command {
	var (
		minutes  int
		untilLow bool
	)
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run a battery test",
		Long: `Run a battery test. Without flags the default 10-second test runs;
--minutes runs a timed test of 1 to 99 minutes; --until-low runs until
the battery is low.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if untilLow && minutes != 0 {
				return errors.New("--minutes and --until-low are mutually exclusive")
			}
			return withSession(func(s *session.Session) error {
				switch {
				case untilLow:
					return s.TestUntilBatteryLow()
				case minutes != 0:
					return s.TestWithTime(minutes)
				default:
					return s.Test()
				}
			})
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Timed test duration in minutes (1-99)")
	cmd.Flags().BoolVar(&untilLow, "until-low", false, "Test until the battery is low")
	return cmd
}

func abortCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abort",
		Short: "Abort a running battery test",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession((*session.Session).AbortTest)
		},
	}
}

func beepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "beep",
		Short: "Toggle the UPS beeper",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession((*session.Session).SwitchBeep)
		},
	}
}

func shutdownCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Shut the UPS down after the fixed one-minute delay",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !confirm("Cut UPS output power in one minute?") {
				return errors.New("aborted")
			}
			return withSession(func(s *session.Session) error {
				if err := s.Shutdown(); err != nil {
					return err
				}
				fmt.Println("Shutdown scheduled; output power cuts in one minute.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func printStatus(st wire.Status) {
	fmt.Printf("Input voltage:        %.1f V\n", st.InputVoltage)
	fmt.Printf("Input fault voltage:  %.1f V\n", st.InputFaultVoltage)
	fmt.Printf("Output voltage:       %.1f V\n", st.OutputVoltage)
	fmt.Printf("Output load:          %.0f %%\n", st.OutputLoad)
	fmt.Printf("Input frequency:      %.1f Hz\n", st.InputFrequency)
	fmt.Printf("Battery voltage:      %.2f V\n", st.BatteryVoltage)
	fmt.Printf("Temperature:          %.1f C\n", st.Temperature)
}

// confirm prompts on the terminal and returns true on an explicit yes.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// withSession opens the configured device, runs fn, and closes up.
func withSession(fn func(*session.Session) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	sessCfg := cfg.SessionConfig()
	if flagTimeout > 0 {
		sessCfg.ReadTimeout = flagTimeout
	}

	capture := flagProtocolLog
	if capture == "" {
		capture = cfg.ProtocolLog
	}
	if capture != "" {
		fl, err := log.NewFileLogger(capture)
		if err != nil {
			return fmt.Errorf("open protocol log: %w", err)
		}
		defer fl.Close()
		sessCfg.Logger = fl
	}

	s, err := open(cfg, sessCfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

// open opens the configured device, optionally retrying with backoff
// until interrupted.
func open(cfg config.Config, sessCfg session.Config) (*session.Session, error) {
	if !flagWait {
		return cfg.Open(sessCfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		t   transport.Transport
		err error
	)
	if cfg.Device.SerialPort != "" {
		t, err = transport.OpenSerialWithRetry(ctx, cfg.Device.SerialPort, transport.SerialConfig{
			BaudRate: cfg.Device.Baud,
		})
	} else {
		t, err = transport.OpenUSBWithRetry(ctx, cfg.Device.VendorID, cfg.Device.ProductID)
	}
	if err != nil {
		return nil, err
	}
	return session.New(t, sessCfg), nil
}

// resolveConfig merges the config file (if any) with the device flags.
// Flags win over the file.
func resolveConfig() (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if flagPort != "" {
		cfg.Device.SerialPort = flagPort
		cfg.Device.VendorID = 0
		cfg.Device.ProductID = 0
	}
	if flagVID != 0 {
		cfg.Device.VendorID = flagVID
		cfg.Device.ProductID = flagPID
		cfg.Device.SerialPort = ""
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
