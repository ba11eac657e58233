package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	catalogstatic "tilefarm/internal/adapter/catalog/static"
	"tilefarm/internal/adapter/console"
	"tilefarm/internal/adapter/identity/localfile"
	"tilefarm/internal/adapter/repo"
	"tilefarm/internal/app/auth"
	"tilefarm/internal/app/ports"
	"tilefarm/internal/app/session"
	"tilefarm/internal/config"
	"tilefarm/internal/logger"

	"github.com/rs/zerolog"
)

// The terminal game keeps its farm on disk unless DB_DRIVER says otherwise.
var hostDefaults = []config.Option{config.WithDefaultDriver(config.DriverSQLite)}

func main() {
	cfg, err := config.Load(hostDefaults...)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}
	log, err := logger.New(cfg.LogLevel, "console", os.Stderr)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("tilefarm stopped")
	}
}

// run plays one signed-in session until the input ends, the player quits or
// signs out, or ctx is cancelled. The farm is saved before it returns.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log zerolog.Logger) error {
	lines := readLines(in)
	users := auth.UseCase{Identity: localfile.Store{Path: cfg.UserFile}}

	ident, err := signIn(ctx, users, lines, out)
	if err != nil {
		return err
	}

	stores, err := repo.Open(ctx, repo.Options{
		Driver:        cfg.DBDriver,
		DSN:           cfg.DBDSN,
		SQLitePath:    cfg.SQLitePath,
		MigrationsDir: cfg.MigrationsDir,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer stores.Close()

	crops, err := catalogstatic.Provider{
		Root: filepath.Dir(cfg.CatalogPath),
		File: filepath.Base(cfg.CatalogPath),
	}.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("load crop catalog: %w", err)
	}

	screen := console.NewRenderer(out, crops)
	sess, err := session.Opener{
		Repo:       stores.Saves,
		Events:     stores.Events,
		Catalog:    crops,
		Logger:     log,
		TickPeriod: cfg.TickPeriod,
	}.Open(ctx, ident.SaveKey, screen)
	if err != nil {
		return err
	}

	screen.Println(fmt.Sprintf("Welcome, %s! Type 'help' for commands.", displayName(ident)))
	runCtx, cancel := context.WithCancel(context.Background())
	go sess.Run(runCtx)
	defer func() {
		cancel()
		<-sess.Done()
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := console.Parse(line)
		if err != nil {
			screen.Notify(err.Error())
			continue
		}
		switch cmd.Kind {
		case console.CommandHelp:
			screen.Println(console.Help)
		case console.CommandQuit:
			return nil
		case console.CommandSignOut:
			if err := users.SignOut(ctx); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}
			screen.Notify("Signed out.")
			return nil
		case console.CommandIntent:
			res, err := sess.Submit(ctx, cmd.Intent)
			if err != nil {
				return err
			}
			screen.Notify(res.Message)
		}
	}
}

// signIn resolves the stored user, asking for an email when there is none.
// A blank answer plays as the guest.
func signIn(ctx context.Context, users auth.UseCase, lines <-chan string, out io.Writer) (auth.Identity, error) {
	ident, err := users.Resolve(ctx)
	if err == nil {
		return ident, nil
	}
	if !errors.Is(err, auth.ErrNotSignedIn) {
		return auth.Identity{}, err
	}
	fmt.Fprint(out, "Sign in with your email (blank to play as guest): ")
	var email string
	select {
	case <-ctx.Done():
		return auth.Identity{}, ctx.Err()
	case l, ok := <-lines:
		if !ok {
			return auth.Identity{}, auth.ErrNotSignedIn
		}
		email = strings.TrimSpace(l)
	}
	if email == "" {
		return auth.Identity{SaveKey: auth.GuestSaveKey, Guest: true}, nil
	}
	return users.SignIn(ctx, ports.UserRecord{Email: email})
}

func displayName(ident auth.Identity) string {
	if ident.Guest {
		return "guest"
	}
	return ident.User.Name
}

func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}
