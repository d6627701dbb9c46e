package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"kviz/internal/app"
	"kviz/internal/domain"

	"github.com/spf13/cobra"
)

// NewPlayCmd plays one session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		duration int
		count    int
		category string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			sessionCfg := cfg.SessionConfig()
			flags := cmd.Flags()
			if flags.Changed("duration") || flags.Changed("count") || flags.Changed("category") {
				perQuestion, total, cat := sessionCfg.PerQuestion, sessionCfg.TotalQuestions, sessionCfg.Category
				if flags.Changed("duration") {
					perQuestion = time.Duration(duration) * time.Second
				}
				if flags.Changed("count") {
					total = count
				}
				if flags.Changed("category") {
					cat = category
				}
				sessionCfg = domain.NewSessionConfig(perQuestion, total, cat)
			}

			service, cleanup, err := newQuizService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			return playSession(cmd.Context(), service, sessionCfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&duration, "duration", int(domain.DefaultPerQuestion/time.Second), "seconds per question (3-90)")
	cmd.Flags().IntVar(&count, "count", domain.DefaultQuestions, "number of questions (5-20)")
	cmd.Flags().StringVar(&category, "category", domain.DefaultCategory, "category id")
	return cmd
}

// playSession runs a session, reading answers (1-4 or a-d) from in and rendering to out.
func playSession(ctx context.Context, service *app.QuizService, cfg domain.SessionConfig, in io.Reader, out io.Writer, opts ...app.SessionOption) error {
	session, err := service.StartSession(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer service.Discard(context.Background(), session.ID())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := app.NewRunner(session, app.DefaultFrame)
	updates, unsubscribe := runner.Subscribe()
	defer unsubscribe()

	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(runCtx) }()

	var current atomic.Int64
	go readAnswers(runCtx, runner, &current, in)

	title := cfg.Category
	if c, ok := domain.LookupCategory(cfg.Category); ok {
		title = c.Title
	}
	fmt.Fprintf(out, "%s: %d pitanja, %s po pitanju\n", title, session.Total(), cfg.PerQuestion)

	r := renderer{out: out, shown: -1}
	for snap := range updates {
		current.Store(int64(snap.CurrentIndex))
		r.render(snap)
	}

	if err := <-runErr; err != nil {
		return err
	}
	summary, err := service.Summary(ctx, session.ID())
	if err != nil {
		return err
	}
	renderSummary(out, summary)
	return nil
}

func readAnswers(ctx context.Context, runner *app.Runner, current *atomic.Int64, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		choice, ok := parseChoice(scanner.Text())
		if !ok {
			continue
		}
		if _, err := runner.Select(ctx, int(current.Load()), choice); err != nil {
			return
		}
	}
}

// parseChoice accepts 1-4 or a-d.
func parseChoice(raw string) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if len(raw) != 1 {
		return 0, false
	}
	switch c := raw[0]; {
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	}
	return 0, false
}

type renderer struct {
	out       io.Writer
	shown     int
	phase     domain.Phase
	secondsAt int64
}

func (r *renderer) render(snap domain.SessionSnapshot) {
	if snap.Completed {
		return
	}
	if snap.CurrentIndex != r.shown && snap.Phase == domain.PhasePresenting && snap.Question != nil {
		r.shown = snap.CurrentIndex
		r.secondsAt = -1
		fmt.Fprintf(r.out, "\n%d/%d %s\n", snap.CurrentIndex+1, snap.Total, snap.Question.Prompt)
		for i, choice := range snap.Question.Choices {
			fmt.Fprintf(r.out, "  %c) %s\n", 'a'+i, choice)
		}
	}

	if snap.Phase == domain.PhasePresenting {
		secs := (snap.RemainingMs + 999) / 1000
		if secs != r.secondsAt {
			r.secondsAt = secs
			marker := ""
			if snap.Critical {
				marker = " !"
			}
			fmt.Fprintf(r.out, "\r  %2ds%s ", secs, marker)
		}
	}

	if snap.Phase != r.phase {
		r.phase = snap.Phase
		if snap.Phase == domain.PhaseAdvancing {
			fmt.Fprintf(r.out, "\n  %s\n", revealLine(snap))
		}
	}
}

func revealLine(snap domain.SessionSnapshot) string {
	outcome := snap.Outcomes[snap.CurrentIndex]
	if snap.Question == nil || snap.Question.Correct == nil {
		return outcome.Glyph() + " vreme je isteklo"
	}
	correct := *snap.Question.Correct
	answer := fmt.Sprintf("%c) %s", 'a'+correct, snap.Question.Choices[correct])
	if outcome == domain.OutcomeCorrect {
		return outcome.Glyph() + " tačno: " + answer
	}
	return outcome.Glyph() + " netačno, tačan odgovor je " + answer
}

func renderSummary(out io.Writer, summary domain.Summary) {
	fmt.Fprintf(out, "\nRezultat: %d/%d\n%s\n", summary.Score, summary.Total, summary.Glyphs())
	if summary.Perfect {
		fmt.Fprintln(out, "Savršeno! Sve tačno.")
	}
}
