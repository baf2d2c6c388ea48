package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"entitymaker/internal/builder"
	"entitymaker/internal/config"
	"entitymaker/internal/domain/entity"
	"entitymaker/internal/observability/logging"
	"entitymaker/internal/schema"
	envconfig "entitymaker/pkg/config"
)

// app is the state shared by all subcommands once flags are parsed.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *builder.PrometheusMetrics
	catalog *schema.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		schemaPath string
		metrics    bool
		logFormat  string
	)

	root := &cobra.Command{
		Use:   "entitymaker",
		Short: "Build immutable entity snapshots from field documents.",
		Long: `entitymaker fills entity builders from YAML or JSON field documents and ` +
			`prints the resulting snapshot. Built-in entities are HowToItem and BlogPost; ` +
			`--schema switches to entities declared in a YAML catalog.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := envconfig.LoadDotEnv(".env"); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			a.cfg = config.Load()
			if cmd.Flags().Changed("schema") {
				a.cfg.SchemaPath = schemaPath
			}
			if cmd.Flags().Changed("metrics") {
				a.cfg.Metrics = metrics
			}
			if cmd.Flags().Changed("log-format") {
				a.cfg.LogFormat = logFormat
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.reportMetrics()
		},
	}

	root.PersistentFlags().StringVar(&schemaPath, "schema", "", "YAML schema catalog (default: built-in entities)")
	root.PersistentFlags().BoolVar(&metrics, "metrics", false, "log builder metrics on exit")
	root.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "log format: text or json")

	root.AddCommand(
		newSchemaCmd(a),
		newBuildCmd(a),
		newWatchCmd(a),
		newFeedCmd(a),
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	logger, err := logging.New(logOut, a.cfg.LogFormat, a.cfg.Level())
	if err != nil {
		return err
	}
	a.logger = logger

	if a.cfg.Metrics {
		a.metrics = builder.NewPrometheusMetrics()
	}

	if a.cfg.SchemaPath != "" {
		c, err := schema.LoadFile(a.cfg.SchemaPath, entity.ObjectTypes())
		if err != nil {
			return err
		}
		a.catalog = c
		a.logger.Debug("schema catalog loaded",
			slog.String("path", a.cfg.SchemaPath),
			slog.String("project", c.Project.Name),
			slog.Int("entities", len(c.Schemas())))
	}
	return nil
}

func (a *app) builderOptions() []builder.Option {
	opts := []builder.Option{builder.WithLogger(a.logger)}
	if a.metrics != nil {
		opts = append(opts, builder.WithMetrics(a.metrics))
	}
	return opts
}

// newBuilder returns an empty builder for the named entity, from the catalog
// when one is loaded and from the built-in entities otherwise.
func (a *app) newBuilder(name string) (builder.Dynamic, error) {
	if a.catalog != nil {
		s, ok := a.catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("entity %q not declared in %s", name, a.cfg.SchemaPath)
		}
		return builder.NewRecord(s, a.builderOptions()...), nil
	}
	return entity.NewBuilder(name, a.builderOptions()...)
}

func (a *app) schemas() []*schema.Schema {
	if a.catalog != nil {
		return a.catalog.Schemas()
	}
	return entity.Schemas()
}

func (a *app) reportMetrics() {
	if a.metrics == nil {
		return
	}
	families, err := a.metrics.Registry().Gather()
	if err != nil {
		a.logger.Warn("gather metrics", slog.Any("error", err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			a.logger.Info("builder metric",
				slog.String("name", mf.GetName()),
				slog.String("labels", labelString(m)),
				slog.Float64("value", m.GetCounter().GetValue()))
		}
	}
}

func labelString(m *dto.Metric) string {
	parts := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		parts = append(parts, l.GetName()+"="+l.GetValue())
	}
	return strings.Join(parts, ",")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
