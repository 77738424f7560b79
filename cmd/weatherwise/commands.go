package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/namefreezers/weatherwise/internal/viewer"
)

var errQuit = errors.New("quit")

type cli struct {
	ctrl      *viewer.Controller
	out       io.Writer
	exportDir string
}

// progress prints the loading indicator; the final view is printed by the command.
func (c *cli) progress(v viewer.View) {
	if v.LoaderVisible {
		fmt.Fprintln(c.out, v.SearchLabel)
	}
}

func (c *cli) repl(ctx context.Context, in io.Reader, stderr io.Writer) int {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(c.out, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return 0
		}
		args := strings.Fields(scanner.Text())
		if len(args) > 0 {
			err := c.exec(ctx, args)
			if errors.Is(err, errQuit) {
				return 0
			}
			if err != nil {
				fmt.Fprintln(stderr, err)
			}
		}
		fmt.Fprint(c.out, "> ")
	}
	fmt.Fprintln(c.out)
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func (c *cli) exec(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "search", "s":
		printView(c.out, c.ctrl.Search(ctx, strings.Join(rest, " ")))
	case "locate":
		return c.locate(ctx, rest)
	case "refresh", "r":
		printView(c.out, c.ctrl.Refresh(ctx))
	case "fav", "favs", "favorites":
		return c.fav(ctx, rest)
	case "theme":
		return c.theme(ctx, rest)
	case "export":
		return c.export(rest)
	case "help", "?":
		fmt.Fprint(c.out, usage)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", cmd)
	}
	return nil
}

func (c *cli) locate(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("locate", pflag.ContinueOnError)
	fs.SetOutput(c.out)
	lat := fs.Float64("lat", 0, "latitude")
	lon := fs.Float64("lon", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var loc viewer.Locator
	if fs.Changed("lat") && fs.Changed("lon") {
		loc = viewer.StaticLocator{Lat: *lat, Lon: *lon}
	}
	printView(c.out, c.ctrl.Locate(ctx, loc))
	return nil
}

func (c *cli) fav(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"ls"}
	}
	city := strings.Join(args[1:], " ")
	switch args[0] {
	case "ls", "list":
	case "add":
		if err := c.ctrl.AddFavorite(ctx, city); err != nil {
			return err
		}
	case "rm", "remove":
		if err := c.ctrl.RemoveFavorite(ctx, city); err != nil {
			return err
		}
	case "load":
		printView(c.out, c.ctrl.LoadFavorite(ctx, city))
		return nil
	default:
		return fmt.Errorf("unknown fav command %q", args[0])
	}
	printFavorites(c.out, c.ctrl.View())
	return nil
}

func (c *cli) theme(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "toggle" {
			return fmt.Errorf("unknown theme command %q", args[0])
		}
		if _, err := c.ctrl.ToggleTheme(ctx); err != nil {
			return err
		}
	}
	v := c.ctrl.View()
	fmt.Fprintf(c.out, "%s %s\n", v.ThemeIcon, v.Theme)
	return nil
}

func (c *cli) export(args []string) error {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	fs.SetOutput(c.out)
	dir := fs.String("dir", c.exportDir, "directory to write into")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, data, err := c.ctrl.Export()
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(c.out, "saved %s\n", path)
	return nil
}
