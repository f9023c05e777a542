package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/COSYNTRA/cosyntrafinal3/internal/api"
	"github.com/COSYNTRA/cosyntrafinal3/internal/careers"
	"github.com/COSYNTRA/cosyntrafinal3/internal/config"
	"github.com/COSYNTRA/cosyntrafinal3/internal/contact"
	"github.com/COSYNTRA/cosyntrafinal3/internal/httpx"
)

func main() {
	conf, err := config.Load("config.yml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.LogLevel()}))
	slog.SetDefault(logger)

	interval, _ := conf.PollInterval()
	timeout, _ := conf.PollTimeout()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := httpx.NewCollyFetcher(conf.App.UserAgent).WithTimeout(timeout)
	listing := careers.NewHTTPListing(conf.Careers.ListingURL, fetcher)

	loader := careers.NewLoader(listing, interval).WithTimeout(timeout)
	loader.Start(ctx)
	defer loader.Stop()

	sender := careers.NewScriptSender(conf.Careers.SubmitURL, nil).WithOpaque(conf.Careers.SubmitOpaque)

	srv := api.NewServer(loader, sender, newMailer(conf), api.Options{
		MaxUploadBytes: conf.Careers.MaxUploadBytes,
		SubmitRPS:      conf.Careers.SubmitRPS,
		WebDir:         conf.App.WebDir,
	})

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(conf.App.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", conf.App.Port, "poll_interval", interval.String(), "contact_provider", conf.ContactProvider())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newMailer(conf *config.Configuration) contact.Sender {
	if conf.ContactProvider() == config.ProviderSMTP {
		return contact.NewSMTPSender(contact.SMTPConfig{
			Host:       conf.Smtp.Host,
			Port:       conf.Smtp.Port,
			User:       conf.Smtp.User,
			Password:   conf.Smtp.Password,
			TLSEnabled: conf.SmtpTLS(),
			From:       conf.Smtp.From,
			To:         conf.Contact.To,
		})
	}
	return contact.NewEmailJSSender(conf.EmailJS.ServiceID, conf.EmailJS.TemplateID, conf.EmailJS.PublicKey)
}
