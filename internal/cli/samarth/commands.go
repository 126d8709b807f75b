package samarth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/projectsamarth/samarth/internal/conversation"
)

var exitWords = map[string]struct{}{"exit": {}, "quit": {}, ":q": {}}

func newChatCommand(opts Options) *cobra.Command {
	var showSQL bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive question session",
		Long: `The chat command opens a conversation with the dataset. Each line you type is
answered independently; type "exit" or "quit" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()
			return chatLoop(cmd.Context(), session, opts, showSQL)
		},
	}
	cmd.Flags().BoolVar(&showSQL, "show-sql", false, "Print the generated SQL with each answer")
	return cmd
}

func newAskCommand(opts Options) *cobra.Command {
	var showSQL bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			reply, err := submit(cmd.Context(), session, opts, "", strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderReply(opts.Out, reply, showSQL)
			if reply.Failed {
				return errors.New("question failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSQL, "show-sql", false, "Print the generated SQL with the answer")
	return cmd
}

func newSchemaCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the schema description sent to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()
			_, _ = fmt.Fprintln(opts.Out, session.Schema())
			return nil
		},
	}
}

func chatLoop(ctx context.Context, session Session, opts Options, showSQL bool) error {
	_, _ = fmt.Fprintln(opts.Out, pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Ask a question about the dataset. Type \"exit\" to quit."))

	conversationID := ""
	scanner := bufio.NewScanner(opts.In)
	for {
		_, _ = fmt.Fprint(opts.Out, pterm.NewStyle(pterm.FgGreen).Sprint("> "))
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(opts.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, ok := exitWords[strings.ToLower(line)]; ok {
			return nil
		}

		reply, err := submit(ctx, session, opts, conversationID, line)
		if err != nil {
			return err
		}
		conversationID = reply.ConversationID
		renderReply(opts.Out, reply, showSQL)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func submit(ctx context.Context, session Session, opts Options, conversationID, question string) (conversation.Reply, error) {
	var spinner *pterm.SpinnerPrinter
	if opts.Interactive {
		spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Thinking...")
	}
	reply, err := session.Submit(ctx, conversationID, question)
	if spinner != nil {
		_ = spinner.Stop()
	}
	return reply, err
}

func renderReply(out io.Writer, reply conversation.Reply, showSQL bool) {
	if showSQL && strings.TrimSpace(reply.Query) != "" {
		title := pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("SQL")
		_, _ = fmt.Fprintln(out, pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(reply.Query))
	}
	if reply.Failed {
		_, _ = fmt.Fprintln(out, pterm.NewStyle(pterm.FgRed).Sprint(reply.Answer))
		return
	}
	_, _ = fmt.Fprintln(out, reply.Answer)
	_, _ = fmt.Fprintln(out)
}
