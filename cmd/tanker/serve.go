package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Tanker Run SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the start screen and vehicle
picker. Runs are stored in the server's journal, shared by every user.
Remote sessions have no sound.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tanker-run/host_key

Examples:
  tanker serve                           # Listen on :23234 with auto-generated key
  tanker serve --ssh :2222               # Listen on port 2222
  tanker serve --host-key ./my_host_key  # Use specific host key
  tanker serve --db ./runs.db            # Use specific journal

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "tanker"})
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	rt := core.DefaultConfig()
	rt.TickDuration = runConfig.Timing.TickDuration()
	env := tui.Env{
		Config:  runConfig,
		Runtime: rt,
		Store:   store,
	}

	server, err := tui.NewSSHServer(cfg, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Tanker Run SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(contextOf(cmd)); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
