package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/ddcswitch/internal/adapters/log"
	"github.com/bft-labs/ddcswitch/internal/adapters/sysfs"
	"github.com/bft-labs/ddcswitch/internal/cliconfig"
	"github.com/bft-labs/ddcswitch/pkg/ddcswitch"
)

const longHelp = `Switch monitor inputs over DDC/CI.

ddcswitch finds the displays attached to the DRM subsystem, builds a VCP Set
command and writes it to each display's I2C control bus with the 50ms spacing
and NAK retries DDC/CI requires. Displays without a control channel (laptop
panels, virtual outputs) are skipped.

Settings come from flags, DDCSWITCH_* environment variables and
$HOME/.ddcswitch/config.toml, in that order of precedence. Access to
/dev/i2c-* usually needs the i2c-dev module and membership of the i2c group.`

var exampleUsage = strings.TrimSpace(`
  ddcswitch list
  ddcswitch all --input hdmi1
  ddcswitch one 1 --value 0x0f
  ddcswitch all --code 0xd6 --value 4
  ddcswitch list --watch
`)

var errDisplaysFailed = errors.New("one or more displays failed")

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries resolved configuration and shared objects between commands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
}

func newCLI() *cli {
	return &cli{
		cfg: cliconfig.DefaultConfig(),
		log: logAdapter.NewConsoleLogger(os.Stderr, cliconfig.DefaultLogLevel),
	}
}

func main() {
	c := newCLI()
	if err := newRootCmd(c).Execute(); err != nil {
		if !errors.Is(err, errDisplaysFailed) {
			c.log.Error().Err(err).Msg("ddcswitch")
		}
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:               "ddcswitch",
		Short:             "Switch monitor inputs over DDC/CI",
		Long:              longHelp,
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.ddcswitch/config.toml)")
	f.StringVar(&c.cfg.SysfsRoot, "sysfs-root", c.cfg.SysfsRoot, "DRM class directory used to find displays")
	f.StringVar(&c.cfg.DevDir, "dev-dir", c.cfg.DevDir, "directory holding i2c-N device nodes")
	f.IntVar(&c.cfg.ControlCode, "code", c.cfg.ControlCode, "VCP control code (0x60 selects the input source)")
	f.IntVar(&c.cfg.Value, "value", c.cfg.Value, "VCP value to set")
	f.StringVar(&c.cfg.Input, "input", "", "named input source instead of --value (e.g. dp1, hdmi1)")
	f.DurationVar(&c.cfg.Quiescence, "quiescence", c.cfg.Quiescence, "minimum idle time between commands on one bus")
	f.IntVar(&c.cfg.Retries, "retries", c.cfg.Retries, "extra attempts after a NAK or timeout")
	f.IntVar(&c.cfg.Concurrency, "concurrency", c.cfg.Concurrency, "displays written in parallel (0 = all, 1 = sequential)")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	root.MarkFlagsMutuallyExclusive("value", "input")

	root.AddCommand(c.listCmd(), c.allCmd(), c.oneCmd(), c.inputsCmd())
	return root
}

// loadConfig applies the config file, then the environment, then validates.
// Flags set on the command line always win.
func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if changed["config"] {
		return fmt.Errorf("config file %s not found", cfgFile)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.log = logAdapter.NewConsoleLogger(os.Stderr, c.cfg.LogLevel)
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

func (c *cli) locator() *sysfs.Locator {
	return sysfs.NewLocator(c.cfg.SysfsRoot, c.cfg.DevDir)
}

func (c *cli) switcher(locator *sysfs.Locator) (*ddcswitch.Switcher, error) {
	return ddcswitch.New(ddcswitch.Config{
		SysfsRoot:   c.cfg.SysfsRoot,
		DevDir:      c.cfg.DevDir,
		Quiescence:  c.cfg.Quiescence,
		Retries:     c.cfg.Retries,
		Concurrency: c.cfg.Concurrency,
	},
		ddcswitch.WithLocator(locator),
		ddcswitch.WithLogger(logAdapter.NewZerologAdapterWithLogger(c.log)),
	)
}

func (c *cli) listCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attached displays and their control buses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			locator := c.locator()
			displays, err := locator.Displays(ctx)
			if err != nil {
				return err
			}
			printDisplays(cmd.OutOrStdout(), displays)
			if !watch {
				return nil
			}

			w := sysfs.NewWatcher(locator, sysfs.WatcherConfig{}, logAdapter.NewZerologAdapterWithLogger(c.log))
			c.log.Info().Str("dev_dir", locator.DevDir()).Msg("watching for display changes")
			return w.Run(ctx, func(displays []ddcswitch.Display) {
				fmt.Fprintln(cmd.OutOrStdout())
				printDisplays(cmd.OutOrStdout(), displays)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "print the list again whenever displays are connected or removed")
	return cmd
}

func (c *cli) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Send the command to every attached display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sw, err := c.switcher(c.locator())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := sw.SwitchAll(ctx, c.cfg.ControlCode, c.cfg.Value)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}
}

func (c *cli) oneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "one [--] <index>",
		Short: "Send the command to one display, by its index in 'ddcswitch list'",
		Long: `Send the command to one display, by its index in 'ddcswitch list'.

Arguments starting with '-' are read as flags; put a negative index after
'--' (ddcswitch one -- -1). Negative indexes are always out of range.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid display index %q", args[0])
			}
			sw, err := c.switcher(c.locator())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := sw.SwitchOne(ctx, index, c.cfg.ControlCode, c.cfg.Value)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res)
		},
	}
	cmd.SetFlagErrorFunc(negativeIndexError)
	return cmd
}

var negativeArgRe = regexp.MustCompile(`in (-\d+)$`)

// negativeIndexError reports "one -1" as an out-of-range index rather than
// an unknown shorthand flag.
func negativeIndexError(cmd *cobra.Command, err error) error {
	if m := negativeArgRe.FindStringSubmatch(err.Error()); m != nil && strings.HasPrefix(err.Error(), "unknown shorthand flag") {
		return fmt.Errorf("%w: index %s (negative indexes must follow --)", ddcswitch.ErrIndexOutOfRange, m[1])
	}
	return err
}

func (c *cli) inputsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inputs",
		Short: "List the input names accepted by --input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range cliconfig.InputNames(c.cfg.Inputs) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s 0x%02X\n", name, c.cfg.Inputs[name])
			}
			return nil
		},
	}
}
