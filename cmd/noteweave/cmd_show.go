package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/noteweave/noteweave/internal/slicer"
)

var showPlain bool

func init() {
	cmd := &cobra.Command{
		Use:   "show <id>[#anchor]",
		Short: "Render a note (or a heading/block range of it) to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0])
		},
	}
	cmd.Flags().BoolVar(&showPlain, "plain", false, "print raw markdown instead of rendering it")
	rootCmd.AddCommand(cmd)
}

func runShow(spec string) error {
	v, _, err := openVault()
	if err != nil {
		return err
	}

	id, anchor := parseIDAnchor(spec)
	note, err := v.Get(id)
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	if note == nil {
		return fmt.Errorf("note not found: %s", id)
	}

	rng := slicer.SliceByAnchor(note, anchor)
	if anchor != nil && rng.Start == rng.End {
		return fmt.Errorf("anchor not found in %s: %s", id, anchor.Value)
	}
	text := slicer.Extract(note.Body.Raw, rng)

	if showPlain {
		fmt.Println(text)
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(glamourStyleOption(), glamour.WithWordWrap(width))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Print(out)
	return nil
}

// glamourStyleOption resolves the rendering style from NOTEWEAVE_GLAMOUR_STYLE,
// falling back to Glamour's own GLAMOUR_STYLE, then "dark". "auto" delegates to
// Glamour's terminal background detection.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv("NOTEWEAVE_GLAMOUR_STYLE")))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	if style == "" {
		style = "dark"
	}
	if style == "auto" {
		return glamour.WithAutoStyle()
	}
	switch style {
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
