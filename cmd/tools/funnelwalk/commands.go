package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/analysis/profile"
	"github.com/zhouzirui/chair-yoga/backend/internal/funnel"
	model "github.com/zhouzirui/chair-yoga/backend/internal/model/quiz"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/quiz"
	"github.com/zhouzirui/chair-yoga/backend/pkg/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "funnelwalk",
		Short:         "Inspect the chair yoga quiz funnel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newStepsCmd(),
		newNextCmd(),
		newPreserveCmd(),
		newBMICmd(),
		newWalkCmd(),
	)
	return root
}

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the step sequence with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for i, step := range funnel.Steps() {
				progress := "-"
				if funnel.IsSelectionStep(step) {
					progress = fmt.Sprintf("%d%%", funnel.Progress(step))
				}
				fmt.Fprintf(out, "%2d  %-24s %s\n", i+1, step, progress)
			}
			return nil
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <step>",
		Short: "Print the step that follows <step>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), funnel.Next(funnel.Step(args[0])))
			return nil
		},
	}
}

func newPreserveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preserve <target> <query>",
		Short: "Append the tracking parameters of <query> to <target>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), funnel.PreserveParams(args[0], args[1]))
			return nil
		},
	}
}

func newBMICmd() *cobra.Command {
	var (
		height    float64
		weight    float64
		bodyType  string
		dreamBody string
	)
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Compute BMI, category and ideal weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bmi, err := funnel.ComputeBMI(height, weight)
			if err != nil {
				return err
			}
			ideal := funnel.IdealWeight(height, model.DreamBody(dreamBody), model.BodyType(bodyType))
			fmt.Fprintf(cmd.OutOrStdout(), "IMC %.1f (%s, risco %s), peso ideal %.0f kg\n",
				bmi.Value, bmi.Category, bmi.Risk, ideal)
			return nil
		},
	}
	cmd.Flags().Float64Var(&height, "height", 165, "height in cm")
	cmd.Flags().Float64Var(&weight, "weight", 70, "weight in kg")
	cmd.Flags().StringVar(&bodyType, "body-type", "", "normal, curvy or plus")
	cmd.Flags().StringVar(&dreamBody, "dream-body", "", "fit, athletic, shapely or content")
	return cmd
}

func newWalkCmd() *cobra.Command {
	var (
		query   string
		goals   []string
		height  float64
		weight  float64
		email   string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Run one session through the whole funnel in-process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if verbose {
				level = "info"
			}
			logger, err := logging.New(level, "console")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return walk(cmd.Context(), cmd.OutOrStdout(), logger, walkOptions{
				query:  query,
				goals:  goals,
				height: height,
				weight: weight,
				email:  email,
			})
		},
	}
	cmd.Flags().StringVar(&query, "query", "utm_source=funnelwalk", "landing page query string")
	cmd.Flags().StringSliceVar(&goals, "goal", []string{model.GoalImproveMobility}, "goal ids to select")
	cmd.Flags().Float64Var(&height, "height", 165, "height in cm")
	cmd.Flags().Float64Var(&weight, "weight", 70, "weight in kg")
	cmd.Flags().StringVar(&email, "email", "walker@example.com", "email captured on the sales page")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every pixel event")
	return cmd
}

type walkOptions struct {
	query  string
	goals  []string
	height float64
	weight float64
	email  string
}

var timeNow = time.Now

// stepAnswers 每个步骤提交的固定答案。
var stepAnswers = map[funnel.Step][]quiz.Answer{
	funnel.StepAge:                 {{Field: quiz.FieldAge, Value: string(model.Age45To54)}},
	funnel.StepBodyType:            {{Field: quiz.FieldBodyType, Value: string(model.BodyCurvy)}},
	funnel.StepDreamBody:           {{Field: quiz.FieldDreamBody, Value: string(model.DreamFit)}},
	funnel.StepChairYogaExperience: {{Field: quiz.FieldChairYogaExperience, Value: string(model.ExperienceTried)}},
	funnel.StepAvailableTime:       {{Field: quiz.FieldAvailableTime, Value: string(model.Time15To30)}},
}

func walk(ctx context.Context, out io.Writer, logger *zap.Logger, opts walkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dispatcher := analytics.NewDispatcher(logger, 0, analytics.LogSink(logger))
	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Run(ctx)
	}()
	defer func() {
		dispatcher.Close()
		<-done
	}()

	svc := quiz.NewService(quiz.Config{}, dispatcher, logger)
	session, err := svc.CreateSession(ctx, opts.query)
	if err != nil {
		return err
	}
	id := session.ID
	step := funnel.Step(session.Step)

	for step != funnel.StepSales {
		for _, answer := range answersFor(step, opts) {
			if _, err := svc.Apply(ctx, id, answer); err != nil {
				return fmt.Errorf("answer %s on %s: %w", answer.Field, step, err)
			}
		}
		transition, err := svc.Advance(ctx, id, "")
		if err != nil {
			return fmt.Errorf("continue from %s: %w", step, err)
		}
		fmt.Fprintf(out, "%-24s -> %s\n", transition.From, transition.Path)
		step = transition.To
	}

	answers, err := svc.Answers(ctx, id)
	if err != nil {
		return err
	}
	summary := profile.Summarize(answers, timeNow())
	fmt.Fprintln(out, profile.Headline(summary))

	if _, err := svc.CaptureLead(ctx, id, opts.email); err != nil {
		return err
	}
	checkout, err := svc.BeginCheckout(ctx, id, "", "", "")
	if err != nil {
		return err
	}
	data, err := json.Marshal(checkout)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "checkout %s\n", data)
	return nil
}

func answersFor(step funnel.Step, opts walkOptions) []quiz.Answer {
	switch step {
	case funnel.StepGoals:
		answers := make([]quiz.Answer, 0, len(opts.goals))
		for _, g := range opts.goals {
			answers = append(answers, quiz.Answer{Field: quiz.FieldGoal, Value: strings.TrimSpace(g)})
		}
		return answers
	case funnel.StepBMICalculator:
		return []quiz.Answer{{Field: quiz.FieldMeasurements, HeightCm: opts.height, WeightKg: opts.weight}}
	default:
		return stepAnswers[step]
	}
}
