// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot commands: ask, train and clear.
//
// Examples:
//   freqdash ask "What is the current learning rate?"
//   freqdash ask --json "Summarize the last run"
//   freqdash train "resnet50 on cifar10, 20 epochs"
//   freqdash clear

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/freqdash/internal/util"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders a reply for terminal display. It returns the
// content unchanged when the renderer cannot be built or fails.
func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, as markdown only when stdout is a
// terminal so piped output stays plain.
func (e *Env) displayResponse(response string) {
	if e.Pretty {
		fmt.Fprint(e.Out, renderMarkdown(response, GetTerminalWidth()-2))
		return
	}
	fmt.Fprintln(e.Out, response)
}

// =============================================================================
// ASK
// =============================================================================

func runAsk(ctx context.Context, env *Env, args Args) error {
	message := util.SanitizeInput(args.Query)
	if util.IsBlank(message) {
		return ErrMissingArgument("message", `freqdash ask "How is training going?"`)
	}

	start := time.Now()
	reply, err := env.Client.SendMessage(ctx, message)
	if err != nil {
		return NewCommandError("ask", "send message", err)
	}

	if args.JSON {
		return NewJSONResponse("ask", AskData{
			Message:    message,
			Response:   reply,
			DurationMs: time.Since(start).Milliseconds(),
		}).PrintTo(env.Out)
	}

	env.displayResponse(reply)
	if args.Verbose {
		fmt.Fprintln(env.Err, DimStyle.Render(fmt.Sprintf("(%s)", time.Since(start).Round(time.Millisecond))))
	}
	return nil
}

// =============================================================================
// TRAIN
// =============================================================================

func runTrain(ctx context.Context, env *Env, args Args) error {
	description := util.SanitizeInput(args.Query)
	if util.IsBlank(description) {
		return ErrMissingArgument("description", `freqdash train "resnet50 on cifar10, 20 epochs"`)
	}

	status, err := env.Client.StartTraining(ctx, description)
	if err != nil {
		return NewCommandError("train", "start training", err)
	}

	if args.JSON {
		return NewJSONResponse("train", TrainData{
			Description: description,
			Status:      status,
		}).PrintTo(env.Out)
	}

	if args.Quiet {
		fmt.Fprintln(env.Out, status)
		return nil
	}
	fmt.Fprintf(env.Out, "%s Training started\n", SuccessStyle.Render("[OK]"))
	if strings.TrimSpace(status) != "" {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Status:", 8), ValueStyle.Render(status))
	}
	return nil
}

// =============================================================================
// CLEAR
// =============================================================================

func runClear(ctx context.Context, env *Env, args Args) error {
	if err := env.Client.ClearHistory(ctx); err != nil {
		return NewCommandError("clear", "clear history", err)
	}
	if args.JSON {
		return NewJSONResponse("clear", map[string]bool{"cleared": true}).PrintTo(env.Out)
	}
	env.printf(args.Quiet, "%s Chat history cleared\n", SuccessStyle.Render("[OK]"))
	return nil
}
