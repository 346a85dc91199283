package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	orchestration "github.com/koscakluka/ema-thinking/core"
	"github.com/koscakluka/ema-thinking/core/actuation"
	"github.com/koscakluka/ema-thinking/core/actuation/furhat"
	"github.com/koscakluka/ema-thinking/core/behavior"
	"github.com/koscakluka/ema-thinking/core/config"
	"github.com/koscakluka/ema-thinking/core/decision"
	"github.com/koscakluka/ema-thinking/core/events"
	"github.com/koscakluka/ema-thinking/core/llms/openai"
	"github.com/koscakluka/ema-thinking/core/llms/openaisdk"
	"github.com/koscakluka/ema-thinking/internal/utils"
	"github.com/spf13/cobra"
)

const (
	transportHTTP = "http"
	transportSDK  = "sdk"
)

type askFlags struct {
	question             string
	configPath           string
	furhatHost           string
	stopThinkingOnAnswer bool
	thinkingWindow       time.Duration
	transport            string
	structured           bool
}

type llmClient interface {
	decision.LLMWithPrompt
	orchestration.LLMWithStream
}

func newAskCmd() *cobra.Command {
	flags := askFlags{}
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask the robot a question",
		Long: `Asks the controller model whether visible thinking is needed, then either
answers directly or voices short thinking cues while the answer is prepared.

Without --question the question is read interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAsk(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.question, "question", "q", "", "question to ask")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "path to the YAML or JSON config file")
	cmd.Flags().StringVar(&flags.furhatHost, "furhat", "", "Furhat robot host, overrides furhat_host")
	cmd.Flags().BoolVar(&flags.stopThinkingOnAnswer, "stop-thinking-on-answer", false, "end visible thinking as soon as the answer starts")
	cmd.Flags().DurationVar(&flags.thinkingWindow, "thinking-window", 0, "visible thinking window, overrides thinking_window")
	cmd.Flags().StringVar(&flags.transport, "transport", transportHTTP, "completion transport: http or sdk")
	cmd.Flags().BoolVar(&flags.structured, "structured", false, "ask the controller for schema constrained output")

	return cmd
}

func runAsk(ctx context.Context, flags askFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.furhatHost != "" {
		cfg.FurhatHost = flags.furhatHost
	}
	if flags.thinkingWindow > 0 {
		cfg.ThinkingWindow = flags.thinkingWindow
	}

	llm, err := newLLMClient(cfg, flags.transport)
	if err != nil {
		return err
	}

	question := strings.TrimSpace(flags.question)
	if question == "" {
		if question, err = promptQuestion(); err != nil {
			return err
		}
	}

	console := newConsole(os.Stdout)

	var actuator actuation.Actuator = newConsoleActuator(console)
	if cfg.FurhatHost != "" {
		robot, err := furhat.Dial(ctx, cfg.FurhatHost,
			furhat.WithWaitForSpeech(),
			furhat.WithWriteTimeout(cfg.ConnectTimeout),
		)
		if err != nil {
			return &config.Error{Field: "furhat_host", Err: err}
		}
		defer robot.Close()
		actuator = robot
	}
	performer := behavior.NewPerformer(actuator)

	deciderOpts := []decision.Option{
		decision.WithModel(cfg.ControllerModel),
		decision.WithTemperature(cfg.ControllerTemperature),
	}
	if flags.structured {
		deciderOpts = append(deciderOpts, decision.WithStructuredOutput())
	}

	policy := orchestration.DefaultThinkingPolicy()
	policy.Window = cfg.ThinkingWindow
	policy.MaxCues = cfg.MaxThinkingCues
	policy.Pause = cfg.ThinkingPause
	if flags.stopThinkingOnAnswer {
		policy.Cancellation = orchestration.StopOnFirstAnswerClause
	}

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithDecider(decision.NewService(llm, deciderOpts...)),
		orchestration.WithStreamingLLM(llm),
		orchestration.WithActuator(actuator),
		orchestration.WithPerformer(performer),
		orchestration.WithRoles(
			orchestration.Role{Model: cfg.ThinkingModel, Temperature: utils.Ptr(cfg.ThinkingTemperature)},
			orchestration.Role{Model: cfg.ReasoningModel, Temperature: utils.Ptr(cfg.ReasoningTemperature)},
		),
		orchestration.WithThinkingPolicy(policy),
	)

	var gestures sync.WaitGroup
	defer gestures.Wait()

	_, err = orchestrator.RunTurn(ctx, question, orchestration.WithEventHandler(func(event events.Event) {
		console.render(event)
		if gesture, ok := event.(events.NonverbalGesture); ok {
			gestures.Add(1)
			go func() {
				defer gestures.Done()
				performer.PerformConfidence(ctx, gesture.Tier)
			}()
		}
	}))
	return err
}

func newLLMClient(cfg config.Config, transport string) (llmClient, error) {
	switch transport {
	case transportHTTP:
		return openai.NewClient(cfg.APIKey,
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithDefaultModel(cfg.ReasoningModel),
			openai.WithConnectTimeout(cfg.ConnectTimeout),
			openai.WithReadTimeout(cfg.ReadTimeout),
			openai.WithPromptTimeout(cfg.DecisionTimeout),
		)
	case transportSDK:
		return openaisdk.NewClient(cfg.APIKey,
			openaisdk.WithBaseURL(cfg.BaseURL),
			openaisdk.WithDefaultModel(cfg.ReasoningModel),
			openaisdk.WithPromptTimeout(cfg.DecisionTimeout),
			openaisdk.WithConnectTimeout(cfg.ConnectTimeout),
			openaisdk.WithReadTimeout(cfg.ReadTimeout),
		)
	default:
		return nil, &config.Error{Field: "transport", Err: fmt.Errorf("expected %q or %q, got %q", transportHTTP, transportSDK, transport)}
	}
}
