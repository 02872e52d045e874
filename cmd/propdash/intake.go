package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-propdash/internal/server"
	"github.com/goliatone/go-propdash/pkg/forms"
	"github.com/goliatone/go-propdash/pkg/orders"
	"github.com/goliatone/go-propdash/pkg/renderers/tui"
	"github.com/goliatone/go-propdash/pkg/submission"
)

func newIntakeCmd(a *app) *cobra.Command {
	var (
		output      string
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:       "intake <form>",
		Short:     "Fill in a dashboard form (profile, property or room) in the terminal",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"profile", "property", "room"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := server.DefaultForms(a.cfg.Forms, orders.Sample())
			if err != nil {
				return err
			}
			form, err := registry.Form(args[0])
			if err != nil {
				return err
			}

			sink := submission.NewSimulated(
				submission.WithDelay(a.cfg.Forms.SubmitDelay),
				submission.WithLogger(a.logger.Named("submission")),
			)
			session := forms.NewSession(form, sink,
				forms.WithLiveValidation(a.cfg.Forms.LiveValidation),
				forms.WithSessionLogger(a.logger.Named("forms")),
			)

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.OutOrStdout())
			}
			intake := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(output)),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithLogger(a.logger.Named("intake")),
			)

			outcome, err := intake.Run(cmd.Context(), session)
			if err != nil {
				return err
			}
			if !outcome.Submitted() {
				return fmt.Errorf("%s form rejected: %d invalid field(s)", form.ID(), len(outcome.Result.Errors()))
			}

			payload, err := intake.Encode(outcome.Receipt.Values)
			if err != nil {
				return err
			}
			a.logger.Debug("intake payload", zap.String("form", form.ID()), zap.String("content_type", intake.ContentType()))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 5, "Re-prompts per field before giving up (0 for unlimited)")
	return cmd
}
