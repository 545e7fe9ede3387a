package cli

import (
	"github.com/spf13/cobra"
	"github.com/wesleyorama2/k6probe/internal/config"
	"github.com/wesleyorama2/k6probe/internal/probe"
)

func newHTTPCmd(a *app) *cobra.Command {
	var (
		method   string
		status   int
		body     string
		headers  []string
		vus      int
		duration string
		timeout  int
		debug    bool
		repeat   int
	)

	cmd := &cobra.Command{
		Use:   "http [URL]",
		Short: "Probe a single endpoint",
		Long: `Probe a single endpoint and check the status code it answers with.

Without --duration each virtual user sends the request once. With --duration
the virtual users keep sending it until the duration elapses.`,
		Example: `  k6probe http https://example.com/health
  k6probe http https://example.com/items -X POST -s 201 -d '{"name":"x"}' -H 'Content-Type: application/json'
  k6probe http https://example.com/health --vus 10 --duration 30s --repeat 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := config.ParseHeaders(headers)
			if err != nil {
				return &probe.ValidationError{Field: "header", Message: err.Error()}
			}

			req := probe.NewRequest(args[0])
			req.Method = method
			req.Status = status
			req.Body = body
			req.Headers = parsed
			req.VUs = vus
			req.Duration = duration
			req.Timeout = timeout
			req.Debug = debug

			if err := req.Validate(); err != nil {
				return err
			}
			if repeat < 1 {
				return &probe.ValidationError{Field: "repeat", Message: "repeat must be at least 1"}
			}

			inv := a.newInvoker(a.settingsFor(&config.ProbeFile{}))

			return a.runProbes(cmd.Context(), inv, []plannedProbe{
				{name: req.Endpoint, req: req, repeat: repeat},
			})
		},
	}

	defaults := probe.NewRequest("")
	cmd.Flags().StringVarP(&method, "method", "X", defaults.Method, "HTTP method (GET, POST, PUT, PATCH, DELETE, OPTIONS)")
	cmd.Flags().IntVarP(&status, "status", "s", defaults.Status, "Expected HTTP status code")
	cmd.Flags().StringVarP(&body, "data", "d", "", "Request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Request header (can be specified multiple times)")
	cmd.Flags().IntVar(&vus, "vus", defaults.VUs, "Number of virtual users")
	cmd.Flags().StringVar(&duration, "duration", "", "Keep sending requests for this long (e.g. 10s)")
	cmd.Flags().IntVar(&timeout, "timeout", defaults.Timeout, "Per-request timeout in seconds")
	cmd.Flags().BoolVar(&debug, "debug", false, "Stream k6 output instead of capturing it")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Run the probe this many times")

	return cmd
}
