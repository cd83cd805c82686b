package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/electoralab/votecast/internal/model"
)

// Flag values shared by the analysis commands
var (
	popvotePath  string
	statesPath   string
	electorsPath string
	polygonsPath string

	outDir   string
	noCache  bool
	noFooter bool

	recentWeight float64
	priorWeight  float64
	targetYear   int
	baseYear     int

	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// addInputFlags registers the input-file overrides on a command.
func addInputFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()
	cmd.Flags().StringVar(&popvotePath, "popvote", defaults.Inputs.PopularVote, "popular-vote CSV path")
	cmd.Flags().StringVar(&statesPath, "states", defaults.Inputs.StateVotes, "state wide-table CSV path")
	cmd.Flags().StringVar(&electorsPath, "electors", defaults.Inputs.Allocations, "electoral-allocation CSV path")
	cmd.Flags().StringVar(&polygonsPath, "polygons", defaults.Inputs.Polygons, "state polygon CSV path")
}

// addForecastFlags registers the projection knobs on a command.
func addForecastFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()
	cmd.Flags().Float64Var(&recentWeight, "recent-weight", defaults.Forecast.Weights.Recent, "weight on the base-year result")
	cmd.Flags().Float64Var(&priorWeight, "prior-weight", defaults.Forecast.Weights.Prior, "weight on the prior-cycle result")
	cmd.Flags().IntVar(&targetYear, "target-year", defaults.Forecast.TargetYear, "election year to project")
	cmd.Flags().IntVar(&baseYear, "base-year", defaults.Forecast.BaseYear, "most recent observed election year")
}

// addLLMFlags registers the optional narrative flags on a command.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// buildConfig assembles the effective configuration: defaults, then the
// config file, then any flag the user actually set on cmd.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config file overlay
	overlayString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	overlayString("inputs.popular_vote", &cfg.Inputs.PopularVote)
	overlayString("inputs.state_votes", &cfg.Inputs.StateVotes)
	overlayString("inputs.allocations", &cfg.Inputs.Allocations)
	overlayString("inputs.polygons", &cfg.Inputs.Polygons)
	overlayString("output.dir", &cfg.Output.Dir)
	if viper.IsSet("forecast.weights.recent") {
		cfg.Forecast.Weights.Recent = viper.GetFloat64("forecast.weights.recent")
	}
	if viper.IsSet("forecast.weights.prior") {
		cfg.Forecast.Weights.Prior = viper.GetFloat64("forecast.weights.prior")
	}

	// Flag overlay, highest priority
	flags := cmd.Flags()
	if flags.Changed("popvote") {
		cfg.Inputs.PopularVote = popvotePath
	}
	if flags.Changed("states") {
		cfg.Inputs.StateVotes = statesPath
	}
	if flags.Changed("electors") {
		cfg.Inputs.Allocations = electorsPath
	}
	if flags.Changed("polygons") {
		cfg.Inputs.Polygons = polygonsPath
	}
	if flags.Changed("recent-weight") {
		cfg.Forecast.Weights.Recent = recentWeight
	}
	if flags.Changed("prior-weight") {
		cfg.Forecast.Weights.Prior = priorWeight
	}
	if flags.Changed("target-year") {
		cfg.Forecast.TargetYear = targetYear
	}
	if flags.Changed("base-year") {
		cfg.Forecast.BaseYear = baseYear
	}

	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// configureLLM wires provider selection and API keys from the environment.
func configureLLM(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.StrictStates = true // Always enforce

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s", llmProvider)
	}
	return nil
}
