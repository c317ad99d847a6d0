package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sjlee-dev/talkvault/internal/config"
	"github.com/sjlee-dev/talkvault/internal/errors"
	"github.com/sjlee-dev/talkvault/internal/ops"
	"github.com/sjlee-dev/talkvault/internal/transcript"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "talkvault",
		Usage:   "Local chat archive for KakaoTalk exports",
		Version: Version,
		Commands: []*cli.Command{
			importCmd(db),
			listCmd(db),
			searchCmd(db, cfg),
			sendersCmd(db),
			statsCmd(db),
			exportCmd(db, cfg, baseDir),
			canonicalizeCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// importCmd creates the import command.
func importCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a chat export file (or piped export text)",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Label recorded against inserted messages (default: file name)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{Source: c.String("source")}

			if c.NArg() > 0 {
				path := c.Args().First()
				data, err := os.ReadFile(path)
				if err != nil {
					if os.IsNotExist(err) {
						return outputError(errors.NewNotFound(path))
					}
					return outputError(errors.NewInternal(err))
				}
				input.Data = data
				if input.Source == "" {
					input.Source = filepath.Base(path)
				}
			} else {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("pass an export file path or pipe export text via stdin"))
				}
				data, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Data = data
			}

			output, err := ops.Import(db, input)
			if err != nil {
				// A mid-batch storage fault still reports the counts
				// persisted before it.
				if output != nil {
					_ = outputJSON(output)
				}
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored messages in chronological order",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum messages to return"},
			&cli.StringFlag{Name: "before", Aliases: []string{"b"}, Usage: "Only messages before this moment (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)"},
			&cli.BoolFlag{Name: "descending", Aliases: []string{"d"}, Usage: "Newest first"},
			&cli.BoolFlag{Name: "all", Usage: "Return the full archive, ignoring limit"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:      c.Int("limit"),
				Before:     c.String("before"),
				Descending: c.Bool("descending"),
				All:        c.Bool("all"),
			}

			output, err := ops.List(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search message bodies for a substring",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum hits to return"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SearchInput{
				Query: strings.Join(c.Args().Slice(), " "),
				Limit: c.Int("limit"),
			}

			output, err := ops.Search(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// sendersCmd creates the senders command.
func sendersCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "senders",
		Usage: "List distinct senders with message counts",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum senders to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Senders(db, ops.SendersInput{Limit: c.Int("limit")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize the archive",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the full archive to a transcript file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: <base>/exports/chat-<timestamp>.<ext>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(transcript.FormatKakao), Usage: "Transcript format: txt|kakao|csv"},
			&cli.BoolFlag{Name: "header", Usage: "Prefix the transcript with an export header block"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:          c.String("path"),
				BaseDir:       baseDir,
				Format:        transcript.Format(c.String("format")),
				IncludeHeader: c.Bool("header"),
			}

			output, err := ops.Export(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// canonicalizeCmd creates the canonicalize command.
func canonicalizeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "canonicalize",
		Usage: "Collapse nickname variants into canonical sender names",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "me", Usage: "Canonical name for the archive owner"},
			&cli.StringFlag{Name: "other", Usage: "Canonical name for the counterpart"},
			&cli.StringSliceFlag{Name: "map", Aliases: []string{"m"}, Usage: "Explicit rename as old=new (repeatable, overrides --me/--other)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CanonicalizeInput{
				Me:    c.String("me"),
				Other: c.String("other"),
			}

			if pairs := c.StringSlice("map"); len(pairs) > 0 {
				mapping, err := parseMapping(pairs)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Mapping = mapping
			}

			output, err := ops.Canonicalize(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vaultErr, ok := err.(*errors.VaultError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vaultErr.Code, vaultErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

// parseMapping parses repeated old=new pairs into a rename map.
func parseMapping(pairs []string) (map[string]string, error) {
	mapping := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		oldName, newName, ok := strings.Cut(pair, "=")
		if !ok || oldName == "" || newName == "" {
			return nil, fmt.Errorf("invalid mapping %q, expected old=new", pair)
		}
		mapping[oldName] = newName
	}
	return mapping, nil
}
