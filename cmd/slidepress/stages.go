package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	slidepress "github.com/alnah/go-slidepress"
	"github.com/alnah/go-slidepress/internal/pipeline"
)

// stagesTitle is the title of the HTML stage documentation.
const stagesTitle = "slidepress pipeline"

// runStages documents the pipeline a build with the same configuration
// would run.
func runStages(ctx context.Context, args []string, env *Environment) error {
	var (
		configName string
		asHTML     bool
		out        string
	)
	fs := flag.NewFlagSet("stages", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	fs.BoolVar(&asHTML, "html", false, "render the documentation to HTML")
	fs.StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	fs.Usage = func() { printStagesUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadBuildConfig(configName, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	params, err := loadParams(cfg)
	if err != nil {
		return err
	}
	sourceDir, err := filepath.Abs(".")
	if err != nil {
		return err
	}

	conv, err := slidepress.NewConverter(slidepress.WithAssetPath(cfg.Assets.BasePath))
	if err != nil {
		return err
	}
	defer conv.Close()

	doc, err := conv.Stages(buildInput(params, "", sourceDir))
	if err != nil {
		return err
	}

	if asHTML {
		doc, err = pipeline.NewGoldmarkConverter().ToHTML(ctx, stagesTitle, doc)
		if err != nil {
			return err
		}
	}

	if out == "" {
		_, err = fmt.Fprint(env.Stdout, doc)
		return err
	}
	if err := os.WriteFile(out, []byte(doc), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
