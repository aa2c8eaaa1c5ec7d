package main

import (
	"context"
	"embed"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/090809/apartments-web/internal/controllers"
	"github.com/090809/apartments-web/internal/propertyapi"
	"github.com/090809/apartments-web/internal/propertyapi/constants"
	"github.com/090809/apartments-web/pkg/auth"
	"github.com/090809/apartments-web/pkg/authorizedhttp"
	"github.com/090809/apartments-web/pkg/fingerprint"
	"github.com/090809/apartments-web/pkg/logging"
	"github.com/090809/apartments-web/pkg/tokenmanagement"
)

//go:embed templates/*
var templateFs embed.FS

//go:embed static
var staticFs embed.FS

const (
	flagPort           = "port"
	flagConfigFile     = "config"
	flagLogLevel       = "log-level"
	flagLoginURL       = "login-url"
	flagListingURL     = "listing-url"
	flagRequestTimeout = "request-timeout"
	flagTokenStore     = "token-store"
	flagTokenFile      = "token-file"
	flagClientProfile  = "client-profile"

	tokenStoreMemory = "memory"
	tokenStoreFile   = "file"
)

func initFlags() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env found; using flags, environment and defaults.")
	}

	pflag.Int(flagPort, 8080, "listen port")
	pflag.String(flagConfigFile, "", "optional JSON config file")
	pflag.String(flagLogLevel, "info", "log level (debug, info, warn, error)")
	pflag.String(flagLoginURL, fmt.Sprintf(constants.API_LOGIN, constants.BaseUrl), "login endpoint")
	pflag.String(flagListingURL, fmt.Sprintf(constants.API_PROPERTY_LIST, constants.BaseUrl), "apartment listing endpoint")
	pflag.Duration(flagRequestTimeout, 15*time.Second, "upstream request timeout")
	pflag.String(flagTokenStore, tokenStoreMemory, "where the session token lives (memory, file)")
	pflag.String(flagTokenFile, "./data/token.json", "token file used by the file token store")
	pflag.String(flagClientProfile, "", "browser TLS fingerprint for upstream calls (e.g. chrome_120); empty uses Go's TLS stack")
	pflag.Parse()

	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		log.Fatalf("Unable to bind flags: %v", err)
	}

	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix("apartments")
	viper.AutomaticEnv()

	if configFile := viper.GetString(flagConfigFile); configFile != "" {
		viper.SetConfigFile(configFile)
		viper.SetConfigType("json")
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Error reading config file: %s", err)
		}
	}
}

func initLogger() *slog.Logger {
	logLevel := logging.ParseLogLevel(viper.GetString(flagLogLevel))
	defaultHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel, AddSource: true})
	return slog.New(logging.NewSanitizingLoggerHandler(defaultHandler))
}

func newTokenStore(kind, filePath string) (auth.TokenStore, error) {
	switch kind {
	case tokenStoreMemory:
		return auth.NewMemoryTokenStore(), nil
	case tokenStoreFile:
		return auth.NewFileTokenStore(filePath), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", kind)
	}
}

// newUpstreamClient builds the client used for every call to the property API.
// Retries are disabled: each view makes exactly one attempt.
func newUpstreamClient(logger *slog.Logger, timeout time.Duration, clientProfile string) (*http.Client, error) {
	retryableClient := retryablehttp.NewClient()
	retryableClient.RetryMax = 0
	retryableClient.Logger = logger
	retryableClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryableClient.HTTPClient.Timeout = timeout

	if clientProfile != "" {
		transport, err := fingerprint.NewRoundTripper(clientProfile, int(timeout.Seconds()))
		if err != nil {
			return nil, err
		}
		retryableClient.HTTPClient.Transport = transport
		logger.With("profile", clientProfile).Info("using fingerprinted TLS transport")
	}

	return retryableClient.StandardClient(), nil
}

func main() {
	initFlags()

	logger := initLogger()
	slog.SetDefault(logger)

	listenAddr := fmt.Sprintf(":%d", viper.GetInt(flagPort))

	tokenStore, err := newTokenStore(viper.GetString(flagTokenStore), viper.GetString(flagTokenFile))
	if err != nil {
		log.Fatal(err)
	}

	upstreamClient, err := newUpstreamClient(logger, viper.GetDuration(flagRequestTimeout), viper.GetString(flagClientProfile))
	if err != nil {
		log.Fatal(err)
	}

	tokenProvider := tokenmanagement.NewStoredTokenProvider(tokenStore)
	tokenProvider.Logger = logger
	authClient := authorizedhttp.NewClient(tokenProvider)
	authClient.DefaultClient = upstreamClient
	authClient.Logger = logger

	api := propertyapi.NewClient(upstreamClient, authClient)
	api.Logger = logger
	api.LoginURL = viper.GetString(flagLoginURL)
	api.ListingURL = viper.GetString(flagListingURL)

	handlers := controllers.NewHandlers(templateFs, tokenStore, api)
	handlers.Logger = logger

	log.Printf("Listening on %s\n", listenAddr)

	server := &http.Server{
		Addr:         listenAddr,
		Handler:      controllers.NewRouter(handlers, staticFs),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  50 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", listenAddr, err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	logger.Info("Server gracefully stopped")
}
