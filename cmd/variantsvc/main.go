package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/imgix-helper/internal/infra/config"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/infra/transport/http"
	"github.com/mkrupp/imgix-helper/internal/repo/attachment"
	"github.com/mkrupp/imgix-helper/internal/repo/option"
	"github.com/mkrupp/imgix-helper/internal/repo/sqlite"
	"github.com/mkrupp/imgix-helper/internal/repo/theme"
	"github.com/mkrupp/imgix-helper/internal/svc/hooksvc"
	"github.com/mkrupp/imgix-helper/internal/svc/mediasvc"
	"github.com/mkrupp/imgix-helper/internal/svc/transformsvc"
	"github.com/mkrupp/imgix-helper/internal/svc/variantsvc"
)

const (
	appName = "imgix"
	svcName = "helper"
)

type Config struct {
	config.EnvConfig

	// TransformPlugin tells whether the transform plugin is installed
	TransformPlugin bool `env:"TRANSFORM_PLUGIN" default:"true"`

	Log       logging.LoggerConfig            `envPrefix:"LOG_"`
	Imgix     transformsvc.TransformConfig    `envPrefix:""`
	DB        sqlite.Config                   `envPrefix:"DB_"`
	Theme     theme.FileThemeRepositoryConfig `envPrefix:"THEME_"`
	Media     mediasvc.MediaConfig            `envPrefix:"MEDIA_"`
	MediaHTTP mediasvc.HTTPTransportConfig    `envPrefix:"MEDIA_HTTP_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

//nolint:funlen
func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.variantsvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

	storedOptions, err := option.SQLiteOptionRepositoryFactory(cfg.DB)()
	if err != nil {
		return fmt.Errorf("new option repository: %w", err)
	}
	defer closeWith(&err, storedOptions.Close)

	options := transformsvc.WrapOptions(cfg.Imgix, storedOptions)

	attachments, err := attachment.SQLiteAttachmentRepositoryFactory(cfg.DB)()
	if err != nil {
		return fmt.Errorf("new attachment repository: %w", err)
	}
	defer closeWith(&err, attachments.Close)

	themeRepo, err := theme.NewFileThemeRepository(ctx, cfg.Theme)
	if err != nil {
		return fmt.Errorf("new theme repository: %w", err)
	}
	defer closeWith(&err, themeRepo.Close)

	hooks := hooksvc.New()

	var settings transformsvc.TransformSettings

	if cfg.TransformPlugin {
		opts, loadErr := transformsvc.LoadOptions(ctx, options)
		if loadErr != nil {
			return fmt.Errorf("load transform options: %w", loadErr)
		}

		plugin := transformsvc.NewSettings(opts)
		plugin.Subscribe(hooks)

		settings = plugin
	}

	mediaSvc := mediasvc.NewMediaLibrary(attachments, options, themeRepo, hooks, cfg.Media)
	deriver := variantsvc.NewDeriver(mediaSvc)

	if err := transformsvc.Bootstrap(ctx, cfg.Imgix, options, settings, hooks, deriver); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	httpTransport := mediasvc.NewHTTPTransport(mediaSvc, deriver, cfg.MediaHTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.MediaHTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

func closeWith(err *error, closeFn func() error) {
	if cerr := closeFn(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("close: %w", cerr))
	}
}
