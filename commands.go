package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal"
	"github.com/lahirunirmalx/cOrange/internal/config"
	"github.com/lahirunirmalx/cOrange/internal/dispatch"
	"github.com/lahirunirmalx/cOrange/internal/orangehrm"
	"github.com/lahirunirmalx/cOrange/internal/punch"
	"github.com/lahirunirmalx/cOrange/internal/ui"
)

const mailboxSize = 16

// setup configures logging and loads the application config. Logs go to
// logFile when it is not empty.
func setup(logFile string, opts ...config.Option) (*config.ApplicationConfig, func(), error) {
	envValues := config.NewEnvironmentConfig()
	logCloser, err := config.ConfigureLogging(envValues.LogLevel, logFile)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.NewApplicationConfig(opts...)
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}
	return cfg, func() {
		if err := cfg.Close(); err != nil {
			log.WithError(err).Error("Failed to close journal")
		}
		logCloser.Close()
	}, nil
}

// authenticate fetches the startup token. Punch cycles fetch their own token,
// so a failure here is not fatal for them.
func authenticate(ctx context.Context, cfg *config.ApplicationConfig) {
	if err := cfg.Authenticate(ctx); err != nil {
		log.WithContext(ctx).WithError(err).Warn("startup authentication failed, will retry on punch")
	}
}

func runPunch(ctx context.Context) error {
	cfg, closeFn, err := setup(config.NewEnvironmentConfig().AppLogFile)
	if err != nil {
		return err
	}
	defer closeFn()
	authenticate(ctx, cfg)

	notifier := &ui.ProgramNotifier{}
	d := cfg.NewDispatcher(notifier)
	err = ui.Run(ctx, ui.Options{Session: &punch.Session{}, Dispatcher: d}, notifier)
	d.Wait()
	return err
}

func runServe(ctx context.Context) error {
	cfg, closeFn, err := setup("")
	if err != nil {
		return err
	}
	defer closeFn()
	authenticate(ctx, cfg)

	mailbox := dispatch.NewMailbox(mailboxSize)
	d := cfg.NewDispatcher(mailbox)
	service := internal.NewService(&punch.Session{}, d, cfg.NewImporter(), mailbox)
	go service.Run(ctx)

	server := internal.SetupServer(cfg, service)
	err = server.Start(ctx, "", cfg.ServerPort())
	d.Wait()
	return err
}

func runImport(ctx context.Context, path string, out io.Writer) error {
	cfg, closeFn, err := setup("")
	if err != nil {
		return err
	}
	defer closeFn()
	authenticate(ctx, cfg)

	errResult := cfg.NewImporter().Import(ctx, path)
	for _, e := range errResult {
		fmt.Fprintln(out, e)
	}
	if len(errResult) > 0 {
		return fmt.Errorf("timesheet import finished with %d errors", len(errResult))
	}
	fmt.Fprintln(out, "Timesheet imported")
	return nil
}

func runRequest(ctx context.Context, method, path, data string, out io.Writer, opts ...config.Option) error {
	m, err := orangehrm.ParseMethod(method)
	if err != nil {
		return err
	}

	cfg, closeFn, err := setup("", opts...)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := cfg.Authenticate(ctx); err != nil {
		return err
	}

	var body []byte
	if data != "" {
		body = []byte(data)
	}
	buf, err := cfg.Client().Do(ctx, m, path, body, cfg.Credentials().Snapshot())
	if err != nil {
		return err
	}
	defer buf.Release()

	_, err = fmt.Fprintln(out, buf.String())
	return err
}
