// Package history parses history command flags and prints completed
// sessions from the session store.
package history

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/louisbranch/scorekeeper/internal/platform/errors"
	"github.com/louisbranch/scorekeeper/internal/platform/errors/i18n"
	uicatalog "github.com/louisbranch/scorekeeper/internal/platform/i18n/catalog"
	entrypoint "github.com/louisbranch/scorekeeper/internal/platform/cmd"
	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
	"github.com/louisbranch/scorekeeper/internal/services/game/storage"
	"github.com/louisbranch/scorekeeper/internal/services/game/storage/sqlite"
	"golang.org/x/text/message"
)

const timeLayout = "2006-01-02 15:04"

// Config holds history command configuration.
type Config struct {
	DBPath  string `env:"SCOREKEEPER_DB_PATH"             envDefault:"scorekeeper.db"`
	Session string `env:"SCOREKEEPER_HISTORY_SESSION"`
	Locale  string `env:"SCOREKEEPER_LOCALE"              envDefault:"en-US"`
	Limit   int    `env:"SCOREKEEPER_HISTORY_LIMIT"       envDefault:"20"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite path holding completed sessions")
	fs.StringVar(&cfg.Session, "session", cfg.Session, "session id to print (empty lists recent sessions)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "output locale")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "number of sessions to list")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userError carries a localized message while keeping the cause matchable.
type userError struct {
	message string
	cause   error
}

func (e userError) Error() string { return e.message }
func (e userError) Unwrap() error { return e.cause }

// Run executes the history command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("db path is required")
	}
	errCatalog := i18n.GetCatalog(cfg.Locale)
	printer := uicatalog.Default().Printer(cfg.Locale)

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceHistory, func(ctx context.Context) error {
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer store.Close()

		if strings.TrimSpace(cfg.Session) == "" {
			err = printSessionList(ctx, store, cfg.Limit, printer, out)
		} else {
			err = printSession(ctx, store, cfg.Session, printer, out)
		}
		if _, ok := apperrors.As(err); ok {
			return userError{message: errCatalog.Localize(err), cause: err}
		}
		return err
	})
}

func printSessionList(ctx context.Context, store storage.SessionStore, limit int, p *message.Printer, out io.Writer) error {
	summaries, err := store.ListCompletedSessions(ctx, limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		p.Fprintf(out, msgListEmpty)
		return nil
	}
	for _, summary := range summaries {
		p.Fprintf(out, msgListLine,
			summary.ID,
			summary.CompletedAt.Format(timeLayout),
			summary.PlayerCount,
			summary.DeathCount,
			summary.Name,
		)
	}
	return nil
}

func printSession(ctx context.Context, store storage.SessionStore, sessionID string, p *message.Printer, out io.Writer) error {
	record, err := store.GetCompletedSession(ctx, sessionID)
	if err != nil {
		return err
	}
	histories, err := character.Summarize(record.Events)
	if err != nil {
		return fmt.Errorf("summarize session %s: %w", record.ID, err)
	}

	p.Fprintf(out, msgSessionHeader, record.Name, record.ID)
	p.Fprintf(out, msgSessionTotals, len(record.Players), len(record.Events), record.CompletedAt.Format(timeLayout))
	for _, history := range histories {
		status := p.Sprintf(msgStatusAlive)
		if !history.Alive {
			status = p.Sprintf(msgStatusDead)
		}
		name := history.PlayerName
		if name == "" {
			name = history.PlayerID
		}
		p.Fprintf(out, msgPlayerLine, name, history.PlayerID, status, history.Current.String())

		characters := make([]string, 0, len(history.Characters))
		for _, identity := range history.Characters {
			characters = append(characters, identity.String())
		}
		p.Fprintf(out, msgPlayerChars, strings.Join(characters, charactersJoiner))
		p.Fprintf(out, msgPlayerCounts, history.Deaths, history.Revivals)
	}
	return nil
}
