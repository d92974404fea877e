// Command megatec-shell is an interactive console over one UPS session.
//
// Usage:
//
//	megatec-shell [flags]
//
// The device is selected the same way as megatec-cli: a YAML config file,
// a serial port, or a USB vendor/product pair. One session is opened at
// startup and held until the shell exits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/megatec-protocol/megatec-go/pkg/config"
	protolog "github.com/megatec-protocol/megatec-go/pkg/log"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.String("port", "", "Serial port path (overrides USB identity)")
	vid := flag.Uint("vid", 0, "USB vendor ID (overrides config)")
	pid := flag.Uint("pid", 0, "USB product ID (overrides config)")
	timeout := flag.Duration("timeout", 0, "Reply read timeout (overrides config)")
	protocolLog := flag.String("protocol-log", "", "Capture the exchanges to a .mlog file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalln(err)
		}
		cfg = loaded
	}
	if *port != "" {
		cfg.Device.SerialPort = *port
		cfg.Device.VendorID = 0
		cfg.Device.ProductID = 0
	}
	if *vid != 0 {
		cfg.Device.VendorID = uint16(*vid)
		cfg.Device.ProductID = uint16(*pid)
		cfg.Device.SerialPort = ""
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	sessCfg := cfg.SessionConfig()
	if *timeout > 0 {
		sessCfg.ReadTimeout = *timeout
	}

	capture := *protocolLog
	if capture == "" {
		capture = cfg.ProtocolLog
	}
	if capture != "" {
		fl, err := protolog.NewFileLogger(capture)
		if err != nil {
			log.Fatalln(err)
		}
		defer fl.Close()
		sessCfg.Logger = fl
	}

	s, err := cfg.Open(sessCfg)
	if err != nil {
		log.Fatalln(err)
	}
	defer s.Close()

	sh, err := newShell(s)
	if err != nil {
		log.Fatalln(err)
	}
	if err := sh.run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
