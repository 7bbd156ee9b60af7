package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/assets"
	"github.com/alnah/go-markvis/internal/server"
)

// editorPage is the page served at the root path.
const editorPage = "editor"

// runServe runs the HTTP server until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return usageError(errUnexpectedArgs(rest))
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}
	defer a.close()

	if f.addr != "" {
		a.cfg.Server.Addr = f.addr
	}
	if err := a.applyExportFlags(f.export); err != nil {
		return err
	}

	css, err := a.stylesheet("")
	if err != nil {
		return err
	}
	page, err := loadPage(a)
	if err != nil {
		return err
	}

	poolOpts := []markvis.Option{markvis.WithLogger(a.logger)}
	if a.cfg.Export.Timeout > 0 {
		poolOpts = append(poolOpts, markvis.WithTimeout(a.cfg.Export.Timeout))
	}
	pool := markvis.NewRasterizerPool(markvis.ResolvePoolSize(a.cfg.Export.Workers), poolOpts...)
	exporter := markvis.NewExporter(a.exporterOptions(pool)...)
	defer func() {
		if err := exporter.Close(); err != nil {
			a.logger.Warn("closing browser pool", zap.Error(err))
		}
	}()

	enhancer := a.newEnhancer()
	if !enhancer.HasCredential() {
		a.logger.Warn("no model credential configured, improve requests will fail",
			zap.String("env", a.cfg.Enhancement.APIKeyEnv))
	}

	srv := server.New(server.Options{
		Addr:           a.cfg.Server.Addr,
		ReadTimeout:    a.cfg.Server.ReadTimeout,
		WriteTimeout:   a.cfg.Server.WriteTimeout,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		RPS:            a.cfg.Server.RateLimit.RPS,
		Burst:          a.cfg.Server.RateLimit.Burst,
		SessionTTL:     a.cfg.Server.SessionTTL,
		DefaultName:    a.cfg.Document.DefaultName,
		Instruction:    a.cfg.Enhancement.Instruction,
		APIKeyEnv:      a.cfg.Enhancement.APIKeyEnv,
		Page:           page,
	}, markvis.NewRenderer(a.rendererOptions(css, "")...), exporter, enhancer, a.logger)

	a.logger.Info("starting markvis",
		zap.String("version", Version),
		zap.Int("workers", pool.Size()),
		zap.String("model", enhancer.Model()))
	return srv.Run(ctx)
}

// loadPage loads the editor page, preferring the configured asset
// directory.
func loadPage(a *app) (string, error) {
	resolver, err := assets.NewAssetResolver(a.cfg.Assets.BasePath)
	if err != nil {
		return "", err
	}
	return resolver.LoadPage(editorPage)
}
