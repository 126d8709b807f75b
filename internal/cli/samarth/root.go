// Package samarth implements the interactive terminal client: a chat loop and
// one-shot commands that run questions through an in-process pipeline.
package samarth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/projectsamarth/samarth/internal/conversation"
)

// Session is a bootstrapped question pipeline.
type Session interface {
	Submit(ctx context.Context, conversationID, question string) (conversation.Reply, error)
	Schema() string
	Close() error
}

type Options struct {
	// Open bootstraps the session on first use so --help never touches the dataset.
	Open        func(ctx context.Context) (Session, error)
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "samarth",
		Short:         "Ask questions about public agriculture and climate datasets",
		Long:          `Samarth answers natural-language questions by generating SQL over the configured dataset, running it, and summarizing the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)

	root.AddCommand(newChatCommand(opts), newAskCommand(opts), newSchemaCommand(opts))
	return root
}

func openSession(ctx context.Context, opts Options) (Session, error) {
	if opts.Open == nil {
		return nil, errors.New("no session opener configured")
	}
	session, err := opts.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("start question pipeline: %w", err)
	}
	return session, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute(opts Options) {
	if err := NewRootCommand(opts).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
