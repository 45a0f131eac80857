package cli

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khanglvm/cmd-palette/internal/config"
)

//go:embed sample_commands.yaml
var sampleManifest []byte

// NewInitCmd creates the 'init' command.
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration and sample manifest",
		Long: `Write ~/.cmd-palette.json with default settings and a sample command
manifest at ~/.cmd-palette/commands.yaml. Existing files are kept unless
--force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := Globals.ConfigPath
			if cfgPath == "" {
				var err error
				if cfgPath, err = config.GetDefaultConfigPath(); err != nil {
					return err
				}
			}
			return runInit(cmd.OutOrStdout(), cfgPath, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}

func runInit(w io.Writer, cfgPath string, force bool) error {
	cfg := config.NewConfig()
	if !force {
		existing, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}
		cfg = existing
	}

	if _, err := os.Stat(cfgPath); force || os.IsNotExist(err) {
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Wrote %s\n", cfgPath)
	} else {
		fmt.Fprintf(w, "• Keeping %s\n", cfgPath)
	}

	manifestPath, err := cfg.ManifestPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(manifestPath); !force && err == nil {
		fmt.Fprintf(w, "• Keeping %s\n", manifestPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(manifestPath, sampleManifest, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	fmt.Fprintf(w, "✓ Wrote %s\n", manifestPath)
	return nil
}
