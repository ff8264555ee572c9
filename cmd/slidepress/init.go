package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-slidepress/internal/config"
	"github.com/alnah/go-slidepress/internal/fileutil"
)

// ErrConfigExists is returned by init when the target exists and --force
// is not set.
var ErrConfigExists = errors.New("config file already exists")

// runInit writes the default configuration as YAML.
func runInit(args []string, env *Environment) error {
	var force bool
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	fs.Usage = func() { printInitUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: init takes at most one path", errUsage)
	}

	path := defaultConfigName
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}
	if fileutil.FileExists(path) && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
