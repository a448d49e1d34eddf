// Command ppuview inspects the pattern tables, name tables, sprites and
// palettes of an NES PPU, seeded from a ROM or a saved snapshot.
package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"ppuview/internal/app"
	"ppuview/internal/debug"
	"ppuview/internal/memory"
	"ppuview/internal/ppu"
	"ppuview/internal/ppuview"
	"ppuview/internal/version"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.GetDetailedVersion())
	}
}

// newApplication loads the configuration, applies the global flags and
// opens the ROM or snapshot they name. needSource is false for commands
// that can work on blank state.
func newApplication(c *cli.Context, needSource bool) (*app.Application, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	cfg := app.NewConfig()
	path := c.String("config")
	if _, err := os.Stat(path); err == nil || c.IsSet("config") {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
		logger.Printf("[main] config %s", path)
	}
	if c.Bool("verbose") {
		cfg.Debug.Verbose = true
	}
	if c.IsSet("palette") {
		cfg.Views.PatternPalette = c.Int("palette") & 3
	}
	if c.IsSet("layout") {
		layout, err := ppuview.ParseLayout(c.String("layout"))
		if err != nil {
			return nil, err
		}
		cfg.Views.Sprite8x16 = layout == ppuview.Layout8x16
	}

	a := app.NewApplication(cfg, logger)
	err := a.Open(c.String("rom"), c.String("snapshot"))
	if errors.Is(err, app.ErrNoSource) && !needSource {
		a.LoadBlank()
		return a, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// run wraps a command body so that every failure exits with status 1
func run(needSource bool, fn func(*cli.Context, *app.Application) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := newApplication(c, needSource)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer a.Cleanup()

		if err := fn(c, a); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}
}

// parseNumber accepts decimal, 0x-prefixed hex and $-prefixed hex.
func parseNumber(s string, bits int) (uint64, error) {
	if strings.HasPrefix(s, "$") {
		return strconv.ParseUint(s[1:], 16, bits)
	}
	return strconv.ParseUint(s, 0, bits)
}

func main() {
	viewFlags := []cli.Flag{
		&cli.IntFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Usage:   "background palette used for pattern tables (0-3)",
		},
		&cli.StringFlag{
			Name:    "layout",
			Aliases: []string{"l"},
			Usage:   "pattern table layout, 8x8 or 8x16",
		},
	}

	cliApp := cli.NewApp()
	cliApp.Name = "ppuview"
	cliApp.Usage = "NES PPU pattern, name table, sprite and palette viewer"
	cliApp.Version = version.GetVersion()

	cliApp.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "rom",
			Aliases: []string{"r"},
			EnvVars: []string{"PPUVIEW_ROM"},
			Usage:   "iNES ROM to seed PPU memory from",
		},
		&cli.StringFlag{
			Name:    "snapshot",
			Aliases: []string{"s"},
			Usage:   "snapshot directory to load (takes precedence over --rom)",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"PPUVIEW_CONFIG"},
			Value:   app.GetDefaultConfigPath(),
			Usage:   "path to configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	cliApp.Commands = []*cli.Command{
		{
			Name:  "render",
			Usage: "Write every view as a PNG",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "output directory (default from config)",
				},
				&cli.IntFlag{
					Name:  "scale",
					Usage: "pixel multiplier",
				},
				&cli.BoolFlag{
					Name:  "dump",
					Usage: "also write text dumps of each view",
				},
			}, viewFlags...),
			Action: run(true, func(c *cli.Context, a *app.Application) error {
				cfg := a.GetConfig()
				if c.IsSet("scale") {
					cfg.Window.Scale = c.Int("scale")
				}
				out := cfg.Paths.Output
				if c.IsSet("out") {
					out = c.String("out")
				}
				if c.Bool("dump") {
					if err := a.EnableDumps(); err != nil {
						return err
					}
				}

				files, err := a.Export(out)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(c.App.Writer, f)
				}
				return nil
			}),
		},
		{
			Name:  "preview",
			Usage: "Draw one view in the terminal",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "view",
					Value: ppuview.ViewPattern.String(),
					Usage: "pattern, nametable, sprite, palette or master",
				},
				&cli.IntFlag{
					Name:  "half",
					Usage: "pattern table half (0 or 1)",
				},
				&cli.IntFlag{
					Name:  "columns",
					Usage: "terminal width (default detected)",
				},
			}, viewFlags...),
			Action: run(false, func(c *cli.Context, a *app.Application) error {
				view, err := ppuview.ParseView(c.String("view"))
				if err != nil {
					return err
				}
				return a.Preview(c.App.Writer, view, c.Int("half")&1, c.Int("columns"))
			}),
		},
		{
			Name:  "inspect",
			Usage: "Report on one pixel of a view",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "view",
					Value: ppuview.ViewNameTable.String(),
					Usage: "pattern, nametable, sprite, palette or master",
				},
				&cli.IntFlag{Name: "x", Usage: "view pixel column"},
				&cli.IntFlag{Name: "y", Usage: "view pixel row"},
				&cli.IntFlag{
					Name:  "half",
					Usage: "pattern table half (0 or 1)",
				},
			}, viewFlags...),
			Action: run(true, func(c *cli.Context, a *app.Application) error {
				view, err := ppuview.ParseView(c.String("view"))
				if err != nil {
					return err
				}
				r, err := a.Inspect(view, c.Int("half")&1, c.Int("x"), c.Int("y"))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, r)
				return nil
			}),
		},
		{
			Name:  "view",
			Usage: "Show the views with the configured video backend",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "backend",
					Usage: "ebitengine, terminal or headless (default from config)",
				},
			}, viewFlags...),
			Action: run(false, func(c *cli.Context, a *app.Application) error {
				if c.IsSet("backend") {
					a.GetConfig().Video.Backend = c.String("backend")
				}
				return a.Show(c.App.Writer)
			}),
		},
		{
			Name:      "import",
			Usage:     "Encode a 128x128 image into a pattern table and save a snapshot",
			ArgsUsage: "IMAGE",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "half",
					Usage: "pattern table half to overwrite (0 or 1)",
				},
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "snapshot directory to write",
				},
			}, viewFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				return run(false, func(c *cli.Context, a *app.Application) error {
					f, err := os.Open(c.Args().First())
					if err != nil {
						return err
					}
					defer f.Close()

					img, _, err := image.Decode(f)
					if err != nil {
						return fmt.Errorf("decode %s: %w", c.Args().First(), err)
					}
					if _, err := a.Import(c.Int("half")&1, img); err != nil {
						return err
					}
					return a.SaveSnapshot(c.String("out"))
				})(c)
			},
		},
		{
			Name:  "memory",
			Usage: "Dump a memory layer (cpu, ppu, sprite or oam)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "layer",
					Value: ppu.LayerPPU.String(),
					Usage: "memory layer",
				},
				&cli.StringFlag{
					Name:  "start",
					Value: "0",
					Usage: "first address, e.g. $3F00 or 0x3F00",
				},
				&cli.IntFlag{
					Name:  "length",
					Value: 256,
					Usage: "number of bytes",
				},
			},
			Action: run(true, func(c *cli.Context, a *app.Application) error {
				layer, err := ppu.ParseLayer(c.String("layer"))
				if err != nil {
					return err
				}
				start, err := parseNumber(c.String("start"), 16)
				if err != nil {
					return err
				}
				data, err := a.ReadMemory(layer, uint16(start), c.Int("length"))
				if err != nil {
					return err
				}
				debug.WriteMemory(c.App.Writer, uint16(start), data)
				return nil
			}),
		},
		{
			Name:      "poke",
			Usage:     "Write bytes into a memory layer and save a snapshot",
			ArgsUsage: "BYTE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "layer",
					Value: ppu.LayerPPU.String(),
					Usage: "memory layer",
				},
				&cli.StringFlag{
					Name:     "addr",
					Required: true,
					Usage:    "address of the first byte",
				},
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "snapshot directory to write",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				return run(true, func(c *cli.Context, a *app.Application) error {
					layer, err := ppu.ParseLayer(c.String("layer"))
					if err != nil {
						return err
					}
					addr, err := parseNumber(c.String("addr"), 16)
					if err != nil {
						return err
					}
					data := make([]byte, 0, c.NArg())
					for _, arg := range c.Args().Slice() {
						v, err := parseNumber(arg, 8)
						if err != nil {
							return err
						}
						data = append(data, uint8(v))
					}
					if err := a.WriteMemory(layer, uint16(addr), data); err != nil {
						return err
					}
					return a.SaveSnapshot(c.String("out"))
				})(c)
			},
		},
		{
			Name:  "snapshot",
			Usage: "Save the loaded PPU state as a snapshot",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "snapshot directory to write",
				},
				&cli.StringFlag{
					Name:  "mirroring",
					Usage: "override name table mirroring: horizontal, vertical, single0, single1 or four",
				},
			},
			Action: run(true, func(c *cli.Context, a *app.Application) error {
				if c.IsSet("mirroring") {
					m, err := memory.ParseMirrorMode(c.String("mirroring"))
					if err != nil {
						return err
					}
					if err := a.SetMirroring(m); err != nil {
						return err
					}
				}
				return a.SaveSnapshot(c.String("out"))
			}),
		},
		{
			Name:  "info",
			Usage: "Show cartridge header and PPU registers",
			Action: run(true, func(c *cli.Context, a *app.Application) error {
				s, err := a.Info()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, s)
				return nil
			}),
		},
		{
			Name:  "version",
			Usage: "Show build details",
			Action: func(c *cli.Context) error {
				version.WriteBuildInfo(c.App.Writer)
				return nil
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
