package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the shape written by init-profile: a commented
// starter config.yaml a new integration can edit directly, instead of
// reading the RuntimeProfile/EvalProfile Go structs to discover the
// configuration surface (spec.md §6).
type starterConfig struct {
	Runtime struct {
		RejectUnknownMetadata bool `yaml:"rejectUnknownMetadata"`
		AllowUnstableFeatures bool `yaml:"allowUnstableFeatures"`
	} `yaml:"runtime"`
	Transport struct {
		LineSeparator   string `yaml:"lineSeparator"`
		MaxFrameBytes   int    `yaml:"maxFrameBytes"`
		MaxMessageBytes int    `yaml:"maxMessageBytes"`
		MetaEnvelope    string `yaml:"metaEnvelope"`
	} `yaml:"transport"`
	Eval struct {
		RequireNonEmptyInstruction bool    `yaml:"requireNonEmptyInstruction"`
		FSharpLexChecks             bool    `yaml:"fsharpLexChecks"`
		MaxUnknownTokenRatio        float64 `yaml:"maxUnknownTokenRatio"`
	} `yaml:"eval"`
	Logging struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		OutputPath string `yaml:"outputPath"`
	} `yaml:"logging"`
	StopOnError bool `yaml:"stopOnError"`
}

const initProfileHeader = `# acp-sentinel starter configuration.
# See internal/common/config for the full set of recognized keys. The
# runtime, transport and eval fields below map onto validate.RuntimeProfile
# and validate.EvalProfile (spec.md §6 "Configuration surface"); logging
# and stopOnError configure the CLI itself.
`

func newInitProfileCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init-profile",
		Short: "Write a starter config.yaml covering the RuntimeProfile/EvalProfile surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc starterConfig
			sc.Transport.LineSeparator = "\n"
			sc.Eval.RequireNonEmptyInstruction = true
			sc.Eval.MaxUnknownTokenRatio = 0.4
			sc.Logging.Level = "info"
			sc.Logging.Format = "text"
			sc.Logging.OutputPath = "stdout"

			body, err := yaml.Marshal(&sc)
			if err != nil {
				return fmt.Errorf("init-profile: marshal starter config: %w", err)
			}

			out := append([]byte(initProfileHeader), body...)

			if outputPath == "-" {
				_, err = os.Stdout.Write(out)
				return err
			}
			if err := os.WriteFile(outputPath, out, 0o644); err != nil {
				return fmt.Errorf("init-profile: write %s: %w", outputPath, err)
			}
			fmt.Printf("wrote starter profile to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "out", "config.yaml", "path to write (\"-\" for stdout)")
	return cmd
}
