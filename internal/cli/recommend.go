package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/models"
	"kepler-responder-go/internal/services"
	"kepler-responder-go/internal/services/emergency"
)

type recommendOptions struct {
	alertPath    string
	area         string
	duration     float64
	trend        string
	offline      bool
	includeAlert bool
	verbose      bool
}

// NewRecommendCmd builds the one-shot command. loadConfig is called only when
// the generator is needed.
func NewRecommendCmd(loadConfig func() *config.Config) *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate an emergency response recommendation for one alert",
		Long: "Reads an alert (or an alert envelope with response context) as JSON and prints\n" +
			"the recommended unit, action, urgency and reasoning. Use --alert - to read stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, opts, loadConfig)
		},
	}

	cmd.Flags().StringVar(&opts.alertPath, "alert", "", "Path to the alert JSON document, or - for stdin")
	cmd.Flags().StringVar(&opts.area, "area", "", "Affected area")
	cmd.Flags().Float64Var(&opts.duration, "duration", 0, "Seconds the risk has persisted")
	cmd.Flags().StringVar(&opts.trend, "trend", "", "Escalation trend: increasing, stable or decreasing")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Skip the external generator and use the fallback classifier")
	cmd.Flags().BoolVar(&opts.includeAlert, "include-alert", false, "Print the alert with the recommendation attached")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine decisions to stderr")
	_ = cmd.MarkFlagRequired("alert")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts recommendOptions, loadConfig func() *config.Config) error {
	var engine *emergency.Engine
	if opts.offline {
		engine = emergency.NewEngine(nil, nil, zerolog.Nop())
	} else {
		engine = services.NewEngine(loadConfig(), nil)
	}
	if !opts.verbose {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	raw, err := readInput(cmd.InOrStdin(), opts.alertPath)
	if err != nil {
		return err
	}

	env, err := decodeAlert(raw)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("area") {
		env.AreaAffected = models.StringPtr(opts.area)
	}
	if cmd.Flags().Changed("duration") {
		env.DurationSeconds = models.Float64Ptr(opts.duration)
	}
	if cmd.Flags().Changed("trend") {
		env.EscalationTrend = models.StringPtr(opts.trend)
	}
	if err := env.ResponseContext.Validate(); err != nil {
		return err
	}

	rec := engine.Generate(context.Background(), env.Alert, env.ResponseContext)

	var out interface{} = rec
	if opts.includeAlert {
		out = env.Alert.WithRecommendation(rec)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alert file: %w", err)
	}
	return data, nil
}

// decodeAlert accepts either an AlertEnvelope or a bare Alert document
func decodeAlert(raw []byte) (models.AlertEnvelope, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return models.AlertEnvelope{}, fmt.Errorf("parsing alert JSON: %w", err)
	}

	var env models.AlertEnvelope
	if _, ok := probe["alert"]; ok {
		if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
			return env, fmt.Errorf("parsing alert envelope: %w", err)
		}
	} else if err := json.Unmarshal(raw, &env.Alert); err != nil {
		return env, fmt.Errorf("parsing alert: %w", err)
	}

	level, err := models.ParseRiskLevel(string(env.Alert.RiskLevel))
	if err != nil {
		return env, err
	}
	env.Alert.RiskLevel = level
	return env, nil
}
