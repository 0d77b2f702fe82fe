// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat in the terminal without the dashboard.
//
// Command: chat
//
// On a terminal the prompt supports line editing and arrow-key history
// for the current session. Nothing is written to disk.
// With piped stdin every line is sent as one message.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/freqdash/internal/model"
	"github.com/jeranaias/freqdash/internal/util"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of user input.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close()
}

// linerReader provides line editing and in-memory history on a terminal.
type linerReader struct {
	line *liner.State
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &linerReader{line: line}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close restores the terminal. History is dropped with the session.
func (r *linerReader) Close() {
	r.line.Close()
}

// scanReader reads lines from a non-terminal stream. The prompt is not shown.
type scanReader struct {
	scanner *bufio.Scanner
}

func newScanReader(in io.Reader) *scanReader {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	return &scanReader{scanner: s}
}

func (r *scanReader) ReadLine(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() {}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is one run of the chat command.
type chatSession struct {
	env          *Env
	args         Args
	conversation *model.Conversation
	input        lineReader
}

func runChat(ctx context.Context, env *Env, args Args) error {
	var input lineReader
	if env.Interactive {
		input = newLinerReader()
	} else {
		input = newScanReader(env.In)
	}
	defer input.Close()

	s := &chatSession{
		env:          env,
		args:         args,
		conversation: model.NewConversation(),
		input:        input,
	}
	return s.run(ctx)
}

func (s *chatSession) run(ctx context.Context) error {
	if s.env.Interactive && !s.args.Quiet {
		s.printWelcome()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := s.input.ReadLine("you> ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		text := util.SanitizeInput(line)
		if util.IsBlank(text) {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(text), "/") {
			cont, err := s.handleSlashCommand(ctx, strings.TrimSpace(text))
			if err != nil {
				DisplayError(s.env.Err, err, false)
			}
			if !cont {
				return nil
			}
			continue
		}

		s.send(ctx, text)
	}
}

// send posts one message. A failure is printed and the session goes on;
// the user message stays in the local log either way.
func (s *chatSession) send(ctx context.Context, text string) {
	s.conversation.AddUserMessage(text)

	reply, err := s.env.Client.SendMessage(ctx, text)
	if err != nil {
		DisplayError(s.env.Err, err, false)
		return
	}
	s.conversation.AddAssistantMessage(reply)

	if !s.args.Quiet && s.env.Interactive {
		fmt.Fprintln(s.env.Out, PromptStyle.Render("assistant"))
	}
	s.env.displayResponse(reply)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand returns false when the session should end.
func (s *chatSession) handleSlashCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	switch strings.ToLower(parts[0]) {
	case "/help", "/h", "/?", "/":
		s.printHelp()
		return true, nil

	case "/clear", "/c":
		if err := s.env.Client.ClearHistory(ctx); err != nil {
			return true, NewCommandError("chat", "clear history", err)
		}
		s.conversation.Reset()
		fmt.Fprintln(s.env.Out, SuccessStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/history":
		s.printHistory()
		return true, nil

	case "/exit", "/quit", "/q":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", parts[0])
	}
}

func (s *chatSession) printWelcome() {
	out := s.env.Out
	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("freqdash chat"))
	fmt.Fprintln(out, RenderSeparator(30))
	fmt.Fprintf(out, "%s %s\n", RenderLabel("Backend:", 9), ValueStyle.Render(s.env.Client.BaseURL()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, DimStyle.Render("Type a message and press Enter. Commands: /help, /exit"))
	fmt.Fprintln(out)
}

func (s *chatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help", "Show this help"},
		{"/clear", "Clear the conversation here and on the server"},
		{"/history", "Show this session's messages"},
		{"/exit", "Leave chat"},
	}

	fmt.Fprintln(s.env.Out)
	for _, c := range commands {
		fmt.Fprintf(s.env.Out, "  %-10s %s\n", c.cmd, DimStyle.Render(c.desc))
	}
	fmt.Fprintln(s.env.Out)
}

func (s *chatSession) printHistory() {
	if s.conversation.IsEmpty() {
		fmt.Fprintln(s.env.Out, DimStyle.Render("No messages yet."))
		return
	}
	for _, msg := range s.conversation.Messages() {
		fmt.Fprintf(s.env.Out, "%s %s: %s\n",
			DimStyle.Render(msg.FormattedTime()),
			msg.Role.DisplayName(),
			msg.Content)
	}
}
