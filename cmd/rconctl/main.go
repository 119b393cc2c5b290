// rconctl relays one administrative command to a managed instance and
// prints the response.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/St4ndd/NodeStack/internal/instance"
	"github.com/St4ndd/NodeStack/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rconctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "rconctl.toml", "path to the rconctl TOML config")
	instanceID := flag.String("instance", "", "managed instance id to target")
	flag.Parse()

	logging.ConfigureRuntime("rconctl")

	command := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if command == "" {
		return fmt.Errorf("no command given")
	}
	if strings.TrimSpace(*instanceID) == "" {
		return fmt.Errorf("-instance is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	inst, ok := cfg.instances[*instanceID]
	if !ok {
		return fmt.Errorf("instance %q not in config", *instanceID)
	}

	mgr := instance.NewManager(cfg.rcon)
	defer mgr.DisconnectAll()

	ctx := context.Background()
	if err := mgr.Connect(ctx, inst); err != nil {
		return err
	}
	body, err := mgr.Send(ctx, inst.ID, command)
	if err != nil {
		return err
	}
	fmt.Println(body)
	return nil
}
