package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nazarhussain/site-contact/env"
	"github.com/nazarhussain/site-contact/internal/client"
)

type options struct {
	api       string
	recipient string
	token     string
	verbose   bool

	form client.Form
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "contact",
		Short:         "Send the site's contact, feedback and subscribe forms from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", env.Lookup("CONTACT_API", "http://localhost:4000"), "base URL of the contact API")
	root.PersistentFlags().StringVar(&opts.recipient, "recipient", env.Lookup("RECIPIENT_EMAIL", ""), "address used for the mail-client fallback")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log request details to stderr")

	send := &cobra.Command{
		Use:   "send",
		Short: "Submit the contact form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, (*client.Controller).SubmitContact)
		},
	}
	send.Flags().StringVarP(&opts.form.Name, "name", "n", "", "your name")
	send.Flags().StringVarP(&opts.form.Email, "email", "e", "", "your email address")
	send.Flags().StringVarP(&opts.form.Message, "message", "m", "", "the message")
	send.Flags().StringVar(&opts.token, "token", "", "verification token to attach")

	feedback := &cobra.Command{
		Use:   "feedback",
		Short: "Submit the footer feedback form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, (*client.Controller).SubmitFeedback)
		},
	}
	feedback.Flags().StringVarP(&opts.form.Name, "name", "n", "", "your name (optional)")
	feedback.Flags().StringVarP(&opts.form.Message, "message", "m", "", "the feedback")

	subscribe := &cobra.Command{
		Use:   "subscribe EMAIL",
		Short: "Subscribe an address to the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.form.Email = args[0]
			return run(cmd, opts, (*client.Controller).Subscribe)
		},
	}

	root.AddCommand(send, feedback, subscribe)
	return root
}

type submitFunc func(c *client.Controller, ctx context.Context, f client.Form) (client.Outcome, error)

func run(cmd *cobra.Command, opts *options, submit submitFunc) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var tokens client.TokenSource
	if opts.token != "" {
		tokens = client.TokenFunc(func(context.Context, string) (string, error) {
			return opts.token, nil
		})
	}

	view := newTerminalView(cmd.OutOrStdout(), cmd.ErrOrStderr())
	defer view.stop()

	c := client.NewController(client.NewAPI(opts.api), view, client.Options{
		Tokens:    tokens,
		Recipient: opts.recipient,
		Logger:    logger,
	})

	o, err := submit(c, cmd.Context(), opts.form)
	if err != nil {
		return err
	}
	if o.Kind != client.Accepted {
		return fmt.Errorf("submission %s", o.Kind)
	}
	return nil
}
