// Package commands implements the v5ctl CLI's subcommands.
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/v5kit/v5serial/pkg/connection"
	serialtransport "github.com/v5kit/v5serial/pkg/transport/serial"
)

var (
	devicePath    string
	transportName string
)

// RootCmd is the v5ctl entry point.
var RootCmd = &cobra.Command{
	Use:           "v5ctl",
	Short:         "Talk to a VEX V5 Brain over its wired serial link",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&devicePath, "device", "/dev/ttyACM0", "V5 brain serial device path")
	RootCmd.PersistentFlags().StringVar(&transportName, "transport", "wired", "transport: wired|controller")

	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(downloadCmd)
	RootCmd.AddCommand(uploadCmd)
	RootCmd.AddCommand(screenshotCmd)
	RootCmd.AddCommand(matchCmd)
}

func parseTransport(name string) (connection.Transport, error) {
	switch name {
	case "wired":
		return connection.TransportWired, nil
	case "controller":
		return connection.TransportController, nil
	default:
		return 0, fmt.Errorf("v5ctl: unknown transport %q (want wired|controller)", name)
	}
}

// openConnection opens the configured serial device and wraps it in a
// Connection, mirroring main.go's "open the port, hand it to the service"
// sequence in the teacher's cmd/bluetooth-service.
func openConnection() (*connection.Connection, func(), error) {
	transport, err := parseTransport(transportName)
	if err != nil {
		return nil, nil, err
	}
	port, err := serialtransport.Open(devicePath)
	if err != nil {
		return nil, nil, err
	}
	conn := connection.New(port, transport, log.Default())
	cleanup := func() {
		conn.Close()
		port.Close()
	}
	return conn, cleanup, nil
}
