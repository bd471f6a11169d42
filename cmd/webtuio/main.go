// Command webtuio relays JSON touch events from WebSocket clients to a
// TUIO/OSC destination over UDP.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pyw110001/webtuio-controller/internal/bridge"
	"github.com/pyw110001/webtuio-controller/internal/config"
	"github.com/pyw110001/webtuio-controller/internal/discovery"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		flags   = config.Default()
	)

	cmd := &cobra.Command{
		Use:          "webtuio",
		Short:        "Relay JSON touch events from WebSocket clients to a TUIO/OSC UDP destination",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			// Flags the user set win over the config file.
			if cmd.Flags().Changed("ws-addr") {
				cfg.WSAddr = flags.WSAddr
			}
			if cmd.Flags().Changed("udp-addr") {
				cfg.UDPAddr = flags.UDPAddr
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = flags.Debug
			}
			if cmd.Flags().Changed("mdns") {
				cfg.MDNS = flags.MDNS
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&flags.WSAddr, "ws-addr", flags.WSAddr, "WebSocket listen address")
	cmd.Flags().StringVar(&flags.UDPAddr, "udp-addr", flags.UDPAddr, "OSC/UDP destination address")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&flags.MDNS, "mdns", false, "advertise the WebSocket endpoint over mDNS")
	return cmd
}

func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	log := logger.WithField("component", "webtuio")

	// The UDP socket is the only resource whose absence is fatal.
	sender, err := bridge.DialUDP(cfg.UDPAddr)
	if err != nil {
		return fmt.Errorf("creating UDP socket: %w", err)
	}
	defer sender.Close()
	log.WithField("dest", cfg.UDPAddr).Info("UDP socket ready")

	br := bridge.New(sender, logger.WithField("component", "bridge"))
	srv := bridge.NewServer(cfg.WSAddr, br, logger.WithField("component", "ws"))

	if cfg.MDNS {
		_, portStr, _ := net.SplitHostPort(cfg.WSAddr)
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("mdns needs a numeric websocket port: %w", err)
		}
		shutdown, err := discovery.Advertise("WebTUIO Bridge", port, logger.WithField("component", "mdns"))
		if err != nil {
			log.WithError(err).Warn("mdns advertisement failed")
		} else {
			defer shutdown()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		srv.Close()
	}()

	log.WithField("addr", cfg.WSAddr).Info("WebSocket server listening")
	return srv.ListenAndServe()
}
