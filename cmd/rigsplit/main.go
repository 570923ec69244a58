package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/binzume/rigsplit/batch"
	"github.com/binzume/rigsplit/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rigsplit <directory_path> [rotate_to_face_z]",
		Short: "Split every skeleton in FBX files into its own file",
		Long: `rigsplit extracts each skeleton of every FBX file in a directory into a
separate file, together with the meshes skinned to it and its animation.
Each extracted rig is moved to the origin on the ground plane.

  directory_path:   Path to directory containing FBX files
  rotate_to_face_z: Optional flag (0 or 1) to rotate actors to face Z direction`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.String("config", "", "YAML options file")
	f.String("format", config.FormatBinary, "output format: binary, ascii or glb")
	f.Bool("rotate", false, "rotate actors to face +Z")
	f.String("forward-hint", "Spine", "child name used to find the facing direction")
	f.String("encoding", "", "charset of object names (e.g. shift_jis)")
	f.Bool("dump", false, "dump extracted scenes")
	return cmd
}

// loadOptions merges the config file, the positional rotate flag and the
// command line flags, in that order.
func loadOptions(cmd *cobra.Command, args []string) (*config.Options, error) {
	f := cmd.Flags()
	opts := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if opts, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if len(args) > 1 {
		opts.RotateToFaceZ = args[1] == "1"
	}
	if f.Changed("rotate") {
		opts.RotateToFaceZ, _ = f.GetBool("rotate")
	}
	if f.Changed("format") {
		opts.Format, _ = f.GetString("format")
	}
	if f.Changed("forward-hint") {
		opts.ForwardHint, _ = f.GetString("forward-hint")
	}
	if f.Changed("encoding") {
		opts.NameEncoding, _ = f.GetString("encoding")
	}
	if f.Changed("dump") {
		opts.Dump, _ = f.GetBool("dump")
	}
	return opts, opts.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	// usage is only for argument errors
	cmd.SilenceUsage = true
	opts, err := loadOptions(cmd, args)
	if err != nil {
		return err
	}

	p := batch.NewProcessor(opts, log.Default())
	if err := p.ProcessDirectory(args[0]); err != nil {
		return err
	}
	p.LogSummary()
	log.Println("Processing complete!")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
