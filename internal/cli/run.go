package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wesleyorama2/k6probe/internal/config"
	"github.com/wesleyorama2/k6probe/internal/probe"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		configFile string
		only       []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the probes defined in a probe file",
		Long: `Run the probes defined in a YAML or JSON probe file, in file order.

Runner settings are taken from the command line first, then from the
K6PROBE_RUNNER and K6PROBE_SCRIPT variables, then from the file.`,
		Example: `  k6probe run -c probes.yaml
  k6probe run -c probes.yaml --only health --only login -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}

			probes, err := selectProbes(cfg, only)
			if err != nil {
				return err
			}

			settings := a.settingsFor(cfg)

			a.logger.Debug("loaded probe file",
				"path", configFile,
				"probes", len(probes),
				"runner", settings.runner,
			)

			return a.runProbes(cmd.Context(), a.newInvoker(settings), probes)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Probe file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&only, "only", nil, "Run only the named probe (can be specified multiple times)")
	cmd.MarkFlagRequired("config")

	return cmd
}

// selectProbes returns the file's probes, restricted to names when given.
func selectProbes(cfg *config.ProbeFile, names []string) ([]plannedProbe, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	found := make(map[string]bool, len(names))
	var probes []plannedProbe
	for _, pc := range cfg.Probes {
		if len(wanted) > 0 && !wanted[pc.Name] {
			continue
		}
		found[pc.Name] = true
		probes = append(probes, plannedProbe{name: pc.Name, req: pc.Request(), repeat: pc.Repeat})
	}

	for _, name := range names {
		if !found[name] {
			return nil, &probe.ValidationError{Field: "only", Message: fmt.Sprintf("no probe named %q", name)}
		}
	}
	return probes, nil
}
