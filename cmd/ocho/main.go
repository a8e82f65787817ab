// ocho is a chip-8 emulator with gui, terminal, web and headless
// frontends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/guslan/ocho"
	"github.com/guslan/ocho/gui"
	"github.com/guslan/ocho/terminal"
	"github.com/guslan/ocho/web"
)

type optionFlags struct {
	frontend string
	config   string
	ips      uint
	port     int
	debug    bool
	quiet    bool
}

func main() {
	options, rom := readArguments()
	logger := createLogger(options)

	if err := run(logger, options, rom); err != nil {
		logger.Fatal(err.Error())
	}
}

func readArguments() (optionFlags, string) {
	options := optionFlags{}

	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags.StringVar(&options.frontend, "frontend", "gui", "frontend to run: gui, terminal, web or headless")
	flags.StringVar(&options.config, "config", "", "path to a json configuration file")
	flags.UintVar(&options.ips, "ips", 0, "instructions per second, overrides the configuration")
	flags.IntVar(&options.port, "port", 8080, "port for the web frontend")
	flags.BoolVar(&options.debug, "debug", false, "enable debug logging and the web debugger")
	flags.BoolVar(&options.quiet, "quiet", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	if err != nil || flags.NArg() != 1 {
		printBanner()
		fmt.Printf("usage: ocho [options] <file to emulate>\n\n")
		flags.PrintDefaults()
		fmt.Println()
		os.Exit(1)
	}

	return options, flags.Arg(0)
}

func printBanner() {
	fmt.Println("[------------------------------------]")
	fmt.Println("[ ocho - a chip-8 emulator            ]")
	fmt.Printf("[------------------------------------]\n\n")
}

func createLogger(options optionFlags) *log.Logger {
	cfg := log.DefaultConfig()
	if options.debug {
		cfg.Level = log.DebugLevel
	} else if options.quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func run(logger *log.Logger, options optionFlags, rom string) error {
	config, err := loadConfig(options)
	if err != nil {
		return err
	}

	ctx := app.Context()

	switch options.frontend {
	case "gui":
		return runGui(logger, config, rom)
	case "terminal":
		return runTerminal(ctx, logger, config, rom)
	case "web":
		return runWeb(ctx, logger, options, config, rom)
	case "headless":
		return runEmulator(&headlessFrontend{ctx: ctx}, logger, config, rom)
	default:
		return fmt.Errorf("unknown frontend '%s'", options.frontend)
	}
}

func loadConfig(options optionFlags) (ocho.Config, error) {
	config := ocho.DefaultConfig()
	if options.config != "" {
		var err error
		config, err = ocho.LoadConfig(options.config)
		if err != nil {
			return config, fmt.Errorf("loading configuration: %w", err)
		}
	}
	if options.ips > 0 {
		config.InstructionsPerSecond = options.ips
	}
	return config, nil
}

func runGui(logger *log.Logger, config ocho.Config, rom string) error {
	frontend := gui.New(config, logger)
	defer frontend.Close()

	emu := ocho.New(frontend, config, logger)
	defer emu.Close()
	frontend.Attach(emu)

	if err := emu.LoadFile(rom); err != nil {
		return err
	}
	return emu.Run()
}

func runTerminal(ctx context.Context, logger *log.Logger, config ocho.Config, rom string) error {
	frontend, err := terminal.New(ctx, logger)
	if err != nil {
		return err
	}
	defer frontend.Close()

	emu := ocho.New(frontend, config, logger)
	defer emu.Close()

	if err := emu.LoadFile(rom); err != nil {
		return err
	}
	return emu.Run()
}

func runWeb(ctx context.Context, logger *log.Logger, options optionFlags,
	config ocho.Config, rom string) error {

	var serverOptions []web.ServerConfigCb
	if options.debug {
		serverOptions = append(serverOptions, web.WithDebugger())
	}
	server := web.NewServer(ctx, logger, serverOptions...)

	emu := ocho.New(server, config, logger)
	defer emu.Close()
	server.Attach(emu)

	if err := emu.LoadFile(rom); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(options.port)
	}()

	if err := emu.Run(); err != nil {
		return err
	}
	return <-errCh
}

func runEmulator(frontend ocho.Frontend, logger *log.Logger, config ocho.Config, rom string) error {
	emu := ocho.New(frontend, config, logger)
	defer emu.Close()

	if err := emu.LoadFile(rom); err != nil {
		return err
	}
	return emu.Run()
}

// headlessFrontend runs the machine without input or output until the
// process is interrupted. Useful for exercising roms and benchmarks.
type headlessFrontend struct {
	ctx context.Context
}

func (f *headlessFrontend) Draw(display *ocho.Display) error {
	display.MarkClean()
	return nil
}

func (f *headlessFrontend) CheckKey(byte) (bool, error) { return false, nil }
func (f *headlessFrontend) PlaySound() error            { return nil }
func (f *headlessFrontend) StopSound() error            { return nil }
func (f *headlessFrontend) ShouldStop() bool            { return f.ctx.Err() != nil }
func (f *headlessFrontend) Step() error                 { return nil }
