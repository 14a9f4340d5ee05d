package app

import (
	"net/http"

	"go.uber.org/zap"
)

// Config holds runtime wiring options for building a Wire.
type Config struct {
	Home     string       // config directory, e.g. $HOME/.wasp
	RelayURL string       // relay base URL, e.g. http://127.0.0.1:8080
	HTTP     *http.Client // optional; defaults to http.DefaultClient
	Logger   *zap.Logger  // optional; defaults to a production JSON logger
}
